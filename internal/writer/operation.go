package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrCancelled is returned when the user cancels at a conflict prompt.
var ErrCancelled = errors.New("operation cancelled")

// Action is what an operation ended up doing.
type Action int

const (
	ActionCreate Action = iota
	ActionOverwrite
	ActionSkip
	ActionUnchanged
)

// String returns the verb used in reports
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "Create"
	case ActionOverwrite:
		return "Overwrite"
	case ActionSkip:
		return "Skip"
	case ActionUnchanged:
		return "Unchanged"
	default:
		return "Unknown"
	}
}

// Operation is a file system change that is planned, then executed.
//
// Plan decides what Execute will do (possibly asking the resolver) without
// touching the target. Description is used in reports.
type Operation interface {
	Plan(ctx context.Context, resolver *Resolver) (Action, error)
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes Content to Path, creating parent directories.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode

	action Action
}

// Plan checks the target and resolves conflicts with an existing file.
// Identical content is reported as ActionUnchanged without asking.
func (op *WriteFileOp) Plan(ctx context.Context, resolver *Resolver) (Action, error) {
	if op.Content == nil {
		return ActionSkip, fmt.Errorf("content is nil for file: %s", op.Path)
	}

	info, err := os.Stat(op.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.action = ActionCreate
		return op.action, nil
	case err != nil:
		return ActionSkip, fmt.Errorf("checking %s: %w", op.Path, err)
	case info.IsDir():
		return ActionSkip, fmt.Errorf("%s is a directory", op.Path)
	}

	existing, err := os.ReadFile(op.Path)
	if err != nil {
		return ActionSkip, fmt.Errorf("reading %s: %w", op.Path, err)
	}
	if bytes.Equal(existing, op.Content) {
		op.action = ActionUnchanged
		return op.action, nil
	}

	if resolver == nil {
		return ActionSkip, fmt.Errorf("file already exists: %s", op.Path)
	}

	for {
		decision, err := resolver.ResolveConflict(op.Path, existing, op.Content)
		if err != nil {
			return ActionSkip, err
		}
		switch decision {
		case Overwrite:
			op.action = ActionOverwrite
			return op.action, nil
		case Skip:
			op.action = ActionSkip
			return op.action, nil
		case ShowDiff:
			resolver.ShowDiff(op.Path, existing, op.Content)
		default:
			return ActionSkip, ErrCancelled
		}
	}
}

// Execute performs the planned write.
func (op *WriteFileOp) Execute(ctx context.Context) error {
	if op.action == ActionSkip || op.action == ActionUnchanged {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return fmt.Errorf("cannot create directory for %s: %w", op.Path, err)
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	return writeAtomic(op.Path, op.Content, mode)
}

// Description reports the planned action, e.g. "Create out/index.json (234 bytes)".
func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("%s %s (%d bytes)", op.action, op.Path, len(op.Content))
}

// writeAtomic writes through a temp file in the target directory and renames it.
func writeAtomic(path string, content []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
