package writer

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures diff rendering
type DiffOptions struct {
	ContextLines int // unchanged lines around each change (default 3)
	Color        bool
	Width        int // truncate lines to this width (default: terminal width)
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type editKind int

const (
	editKeep editKind = iota
	editInsert
	editDelete
)

type edit struct {
	kind     editKind
	oldIndex int // 0-based, -1 for inserts
	newIndex int // 0-based, -1 for deletes
	text     string
}

// DiffGenerator renders unified diffs. It keeps its trace buffer between
// calls, so reuse one generator for many files.
type DiffGenerator struct {
	trace [][]int
}

// NewDiffGenerator creates a diff generator
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{}
}

// GenerateDiffDefault renders a colored diff with default options.
func (dg *DiffGenerator) GenerateDiffDefault(oldPath, newPath string, old, newer []byte) string {
	return dg.GenerateDiff(oldPath, newPath, old, newer, DiffOptions{Color: true})
}

// GenerateDiff renders a unified diff; identical inputs yield "".
func (dg *DiffGenerator) GenerateDiff(oldPath, newPath string, old, newer []byte, opts DiffOptions) string {
	if opts.ContextLines <= 0 {
		opts.ContextLines = 3
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth()
	}

	if bytes.IndexByte(old, 0) >= 0 || bytes.IndexByte(newer, 0) >= 0 {
		return "Binary files differ\n"
	}

	a, b := splitLines(old), splitLines(newer)
	if len(a) > 10000 || len(b) > 10000 {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	edits := dg.myers(a, b)
	hunks := groupHunks(edits, opts.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	style := func(s lipgloss.Style, text string) string {
		if opts.Color {
			return s.Render(text)
		}
		return text
	}

	var buf strings.Builder
	buf.WriteString(style(headerStyle, "--- "+oldPath) + "\n")
	buf.WriteString(style(headerStyle, "+++ "+newPath) + "\n")
	for _, h := range hunks {
		buf.WriteString(style(hunkStyle, h.header()) + "\n")
		for _, e := range h {
			text := truncate(e.text, opts.Width-2)
			switch e.kind {
			case editInsert:
				buf.WriteString(style(addedStyle, "+"+text) + "\n")
			case editDelete:
				buf.WriteString(style(removedStyle, "-"+text) + "\n")
			default:
				buf.WriteString(" " + text + "\n")
			}
		}
	}
	return buf.String()
}

// myers computes a shortest edit script (E. Myers, "An O(ND) Difference
// Algorithm and Its Variations", 1986).
func (dg *DiffGenerator) myers(a, b []string) []edit {
	n, m := len(a), len(b)
	maxD := n + m
	offset := maxD + 1
	v := make([]int, 2*maxD+3)
	dg.trace = dg.trace[:0]

	for d := 0; d <= maxD; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		dg.trace = append(dg.trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return dg.backtrack(a, b, offset)
			}
		}
	}
	return nil
}

func (dg *DiffGenerator) backtrack(a, b []string, offset int) []edit {
	x, y := len(a), len(b)
	var rev []edit

	for d := len(dg.trace) - 1; d >= 0; d-- {
		v := dg.trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, edit{kind: editKeep, oldIndex: x, newIndex: y, text: a[x]})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, edit{kind: editInsert, oldIndex: -1, newIndex: y, text: b[y]})
		} else {
			x--
			rev = append(rev, edit{kind: editDelete, oldIndex: x, newIndex: -1, text: a[x]})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

type hunk []edit

// header renders "@@ -a,b +c,d @@" with 1-based starts.
func (h hunk) header() string {
	oldStart, newStart := -1, -1
	oldCount, newCount := 0, 0
	for _, e := range h {
		if e.oldIndex >= 0 {
			if oldStart < 0 {
				oldStart = e.oldIndex
			}
			oldCount++
		}
		if e.newIndex >= 0 {
			if newStart < 0 {
				newStart = e.newIndex
			}
			newCount++
		}
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart+1, oldCount, newStart+1, newCount)
}

// groupHunks splits an edit script into hunks with ctx lines of context,
// merging changes separated by at most 2*ctx unchanged lines.
func groupHunks(edits []edit, ctx int) []hunk {
	var hunks []hunk
	start, end := -1, -1

	flush := func() {
		if start < 0 {
			return
		}
		lo := max(start-ctx, 0)
		hi := min(end+ctx, len(edits)-1)
		hunks = append(hunks, hunk(edits[lo:hi+1]))
		start, end = -1, -1
	}

	for i, e := range edits {
		if e.kind == editKeep {
			continue
		}
		if start >= 0 && i-end > 2*ctx {
			flush()
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	flush()
	return hunks
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 78
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the terminal width, or 80 when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
