package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"answer", "schemas\n", "schemas"},
		{"trimmed", "  dist/x.json  \n", "dist/x.json"},
		{"empty uses default", "\n", "default"},
		{"eof uses default", "", "default"},
		{"no trailing newline", "last", "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := NewPrompter(strings.NewReader(tt.input), out)

			assert.Equal(t, tt.want, p.Prompt("Question", "default"))
			assert.Contains(t, out.String(), "Question")
			assert.Contains(t, out.String(), "(default)")
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", true, false},
	}

	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
		assert.Equal(t, tt.want, p.Confirm("Continue?", tt.defaultYes), "input %q", tt.input)
	}
}

func TestPrompter_SequentialAnswers(t *testing.T) {
	p := NewPrompter(strings.NewReader("a\nb\n"), &bytes.Buffer{})
	assert.Equal(t, "a", p.Prompt("first", ""))
	assert.Equal(t, "b", p.Prompt("second", ""))
}
