// Package output prints styled, user-facing CLI messages.
//
// Diagnostics go through pkg/logger; this package is for results the user
// asked for (summaries, next steps, failures). Styling uses lipgloss.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// The CLI calls this when --verbose is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// SetWriter redirects all output to w and returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func printStyled(style lipgloss.Style, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, style.Render(msg))
}

// Success prints a success message with 🪶 and green color.
//
// Example:
//
//	output.Success("Registered 12 schemas")
func Success(msg string) {
	printStyled(successStyle, "🪶 "+msg)
}

// Error prints an error message with ❌ and red color.
func Error(msg string) {
	printStyled(errorStyle, "❌ "+msg)
}

// Warn prints a warning message with ⚠️ and yellow color.
// Use this for inputs that were skipped but did not stop the run.
func Warn(msg string) {
	printStyled(warnStyle, "⚠️  "+msg)
}

// Info prints an informational message with ℹ️ and cyan color.
func Info(msg string) {
	printStyled(infoStyle, "ℹ️  "+msg)
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("somelocation/schema.json ← https://foo.com/somelocation/schema.json")
func Step(msg string) {
	printStyled(stepStyle, "   "+msg)
}

// Verbose prints a message with 🔍 only if verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	v := verboseMode
	mu.Unlock()
	if v {
		printStyled(stepStyle, "🔍 "+msg)
	}
}
