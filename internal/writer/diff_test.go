package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plainDiff(old, newer string) string {
	return NewDiffGenerator().GenerateDiff("a", "b", []byte(old), []byte(newer), DiffOptions{Width: 120})
}

func TestGenerateDiff_Identical(t *testing.T) {
	assert.Empty(t, plainDiff("a\nb\n", "a\nb\n"))
}

func TestGenerateDiff_SingleChange(t *testing.T) {
	got := plainDiff("one\ntwo\nthree\n", "one\n2\nthree\n")

	want := strings.Join([]string{
		"--- a",
		"+++ b",
		"@@ -1,3 +1,3 @@",
		" one",
		"-two",
		"+2",
		" three",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestGenerateDiff_FromEmpty(t *testing.T) {
	got := plainDiff("", "x\ny\n")

	assert.Contains(t, got, "@@ -0,0 +1,2 @@")
	assert.Contains(t, got, "+x\n+y\n")
}

func TestGenerateDiff_SeparateHunks(t *testing.T) {
	var old, newer []string
	for i := 0; i < 30; i++ {
		line := string(rune('a' + i%26))
		old = append(old, line)
		newer = append(newer, line)
	}
	newer[1] = "CHANGED-1"
	newer[25] = "CHANGED-25"

	got := plainDiff(strings.Join(old, "\n")+"\n", strings.Join(newer, "\n")+"\n")
	assert.Equal(t, 2, strings.Count(got, "@@ -"))
}

func TestGenerateDiff_Binary(t *testing.T) {
	got := NewDiffGenerator().GenerateDiff("a", "b", []byte{0, 1}, []byte("x"), DiffOptions{})
	assert.Equal(t, "Binary files differ\n", got)
}

func TestGenerateDiff_ReuseGenerator(t *testing.T) {
	gen := NewDiffGenerator()
	first := gen.GenerateDiff("a", "b", []byte("x\n"), []byte("y\n"), DiffOptions{})
	second := gen.GenerateDiff("a", "b", []byte("x\n"), []byte("y\n"), DiffOptions{})
	assert.Equal(t, first, second)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))
}
