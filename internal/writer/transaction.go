package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Transaction stages several files and writes them together.
// If a write fails, files it created are removed and files it overwrote
// get their previous content back.
type Transaction struct {
	staged    []stagedFile
	written   []writtenFile
	committed bool
}

// writtenFile remembers what a path held before the transaction wrote it.
type writtenFile struct {
	path    string
	backup  []byte // nil when the file did not exist
	mode    os.FileMode
	existed bool
}

type stagedFile struct {
	path    string
	content []byte
	mode    os.FileMode
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddFile stages a write (nothing touches disk until Commit)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.staged = append(t.staged, stagedFile{path: path, content: content, mode: mode})
}

// Len returns the number of staged files.
func (t *Transaction) Len() int {
	return len(t.staged)
}

// Commit writes every staged file, rolling back on the first failure.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for _, f := range t.staged {
		dir := filepath.Dir(f.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Rollback()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		prev, err := snapshot(f.path)
		if err != nil {
			t.Rollback()
			return err
		}
		if err := writeAtomic(f.path, f.content, f.mode); err != nil {
			t.Rollback()
			return fmt.Errorf("failed to write file %s: %w", f.path, err)
		}
		t.written = append(t.written, prev)
	}

	t.committed = true
	return nil
}

// Rollback undoes the writes of an uncommitted transaction, newest first.
// Safe to defer; it does nothing after a successful Commit.
func (t *Transaction) Rollback() {
	if t.committed {
		return
	}
	for i := len(t.written) - 1; i >= 0; i-- {
		w := t.written[i]
		if w.existed {
			writeAtomic(w.path, w.backup, w.mode) // best effort
			continue
		}
		os.Remove(w.path) // best effort
	}
	t.written = nil
}

// snapshot records the current content of path before it is overwritten.
func snapshot(path string) (writtenFile, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return writtenFile{path: path}, nil
	}
	if err != nil {
		return writtenFile{}, fmt.Errorf("checking %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return writtenFile{}, fmt.Errorf("backing up %s: %w", path, err)
	}
	return writtenFile{path: path, backup: data, mode: info.Mode().Perm(), existed: true}, nil
}
