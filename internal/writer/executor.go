package writer

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun   bool
	Resolver *Resolver // nil refuses to touch existing files
	Writer   io.Writer // Where to write the report (defaults to os.Stdout)
}

// Report lists what each operation did, in order.
type Report struct {
	Actions []Action
}

// Count returns how many operations ended with action a.
func (r *Report) Count(a Action) int {
	n := 0
	for _, got := range r.Actions {
		if got == a {
			n++
		}
	}
	return n
}

// Execute plans every operation first, then runs them. Nothing is written
// if any plan fails.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) (*Report, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	report := &Report{Actions: make([]Action, 0, len(ops))}
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		action, err := op.Plan(ctx, opts.Resolver)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		report.Actions = append(report.Actions, action)
	}

	for _, op := range ops {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return nil, fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return report, nil
}
