package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution represents what to do with an existing file
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// ConflictStrategy decides how to resolve a conflict
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// Resolver resolves conflicts with files that already exist.
type Resolver struct {
	strategy ConflictStrategy
	diff     *DiffGenerator
	out      io.Writer
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// NewResolver creates a resolver from the --force, --skip and --diff flags.
// --force cannot be combined with the others.
func NewResolver(force, skip, diff bool) (*Resolver, error) {
	if force && (skip || diff) {
		return nil, fmt.Errorf("--force cannot be combined with --skip or --diff")
	}

	r := &Resolver{diff: NewDiffGenerator(), out: os.Stdout}
	switch {
	case force:
		r.strategy = ForceStrategy{}
	case skip:
		r.strategy = SkipStrategy{}
	case diff:
		r.strategy = &DiffStrategy{resolver: r}
	default:
		r.strategy = InteractiveStrategy{}
	}
	return r, nil
}

// NewResolverWithStrategy creates a resolver around a custom strategy.
func NewResolverWithStrategy(s ConflictStrategy, out io.Writer) *Resolver {
	if out == nil {
		out = os.Stdout
	}
	return &Resolver{strategy: s, diff: NewDiffGenerator(), out: out}
}

// ResolveConflict returns the decision for an existing file.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

// ShowDiff prints a diff between the existing and the new content. Long
// diffs open in a scrollable viewer when stdout is a terminal.
func (r *Resolver) ShowDiff(path string, existing, newer []byte) {
	diff := r.diff.GenerateDiffDefault(path, path, existing, newer)
	if strings.Count(diff, "\n") > 20 && isTerminal() {
		p := tea.NewProgram(newDiffViewerModel(path, diff), tea.WithAltScreen())
		if _, err := p.Run(); err == nil {
			return
		}
	}
	fmt.Fprint(r.out, diff)
}

// ForceStrategy always overwrites
type ForceStrategy struct{}

// Resolve returns Overwrite
func (ForceStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file
type SkipStrategy struct{}

// Resolve returns Skip
func (SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// DiffStrategy shows the diff once, then asks interactively
type DiffStrategy struct {
	resolver *Resolver
	shown    map[string]bool
}

// Resolve shows the diff on first sight of path, then prompts.
func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	if s.shown == nil {
		s.shown = make(map[string]bool)
	}
	if !s.shown[path] {
		s.shown[path] = true
		s.resolver.ShowDiff(path, existing, newer)
	}
	return InteractiveStrategy{}.Resolve(path, existing, newer)
}

// InteractiveStrategy shows a keyboard-driven menu.
// Without a terminal the existing file is kept.
type InteractiveStrategy struct{}

// Resolve shows the menu and returns the user's choice.
func (InteractiveStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	if !isTerminal() {
		return Skip, nil
	}

	p := tea.NewProgram(newConflictMenuModel(path, len(existing), len(newer)))
	final, err := p.Run()
	if err != nil {
		return Cancel, fmt.Errorf("failed to show menu: %w", err)
	}

	result := final.(conflictMenuModel)
	if result.selected == nil {
		return Cancel, nil
	}
	return *result.selected, nil
}

type conflictMenuModel struct {
	path     string
	oldSize  int
	newSize  int
	choices  []string
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(path string, oldSize, newSize int) conflictMenuModel {
	return conflictMenuModel{
		path:    path,
		oldSize: oldSize,
		newSize: newSize,
		choices: []string{
			"Show diff and decide",
			"Skip (keep existing file)",
			"Overwrite (replace with new output)",
			"Cancel",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		resolution := mapChoiceToResolution(m.cursor)
		m.selected = &resolution
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  Output already exists: ") + titleStyle.Render(m.path) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("    Existing: %s    New: %s", formatFileSize(m.oldSize), formatFileSize(m.newSize))) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

func mapChoiceToResolution(cursor int) ConflictResolution {
	switch cursor {
	case 0:
		return ShowDiff
	case 1:
		return Skip
	case 2:
		return Overwrite
	default:
		return Cancel
	}
}

type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		const chrome = 4 // header and footer lines
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}
	header := titleStyle.Render("Diff: "+m.path) + "\n" + borderStyle.Render(strings.Repeat("─", m.viewport.Width))
	footer := borderStyle.Render(strings.Repeat("─", m.viewport.Width)) + "\n" +
		mutedStyle.Render(fmt.Sprintf("%3.f%%  [↑/↓/pgup/pgdn] Scroll    [q] Back to menu", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// formatFileSize formats a byte count in human-readable form
func formatFileSize(size int) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := unit, 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
