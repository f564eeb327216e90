// Package bundle runs plume's pipeline: load inputs, register every
// document, and optionally write the registry manifest.
package bundle

import (
	"context"
	"fmt"
	"io"

	plume "github.com/simonhull/firebird-suite/plume"
	"github.com/simonhull/firebird-suite/plume/internal/inputs"
	"github.com/simonhull/firebird-suite/plume/internal/manifest"
	"github.com/simonhull/firebird-suite/plume/internal/schema"
	"github.com/simonhull/firebird-suite/plume/internal/writer"
	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// Options configures a run
type Options struct {
	Inputs []string
	Loader inputs.Options

	// Output is the manifest path; empty skips writing.
	Output   string
	Format   manifest.Format
	DryRun   bool
	Resolver *writer.Resolver
	Report   io.Writer // progress lines from the writer
}

// Result summarises a run
type Result struct {
	Registry *schema.Registry
	Outcomes []schema.Outcome
	Written  *writer.Report
}

// Count returns how many registrations ended with status s.
func (r *Result) Count(s schema.Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Dropped returns the outcomes of documents that were not stored.
func (r *Result) Dropped() []schema.Outcome {
	var dropped []schema.Outcome
	for _, o := range r.Outcomes {
		if !o.Stored() {
			dropped = append(dropped, o)
		}
	}
	return dropped
}

// Run executes the pipeline. Input and registration problems are reported
// through log and the Result; only cancellation and output failures return
// an error.
func Run(ctx context.Context, opts Options, log logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Default()
	}

	loader := inputs.NewLoader(opts.Loader, log)
	docs, err := loader.Load(ctx, opts.Inputs)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded inputs", logger.F("documents", len(docs)))

	reg := schema.NewRegistry(schema.WithLogger(log))
	result := &Result{
		Registry: reg,
		Outcomes: make([]schema.Outcome, 0, len(docs)),
	}
	for _, doc := range docs {
		result.Outcomes = append(result.Outcomes, reg.RegisterFrom(doc.Source, doc.Value))
	}

	log.Info("Registered schemas",
		logger.F("stored", reg.Size()),
		logger.F("replaced", result.Count(schema.Replaced)),
		logger.F("dropped", result.Count(schema.Dropped)))

	if opts.Output == "" {
		return result, nil
	}

	format := opts.Format
	if format == "" {
		format = manifest.FormatForPath(opts.Output, manifest.FormatJSON)
	}
	data, err := manifest.Build(reg, "plume "+plume.Version).Encode(format)
	if err != nil {
		return result, err
	}

	ops := []writer.Operation{&writer.WriteFileOp{Path: opts.Output, Content: data, Mode: 0644}}
	report, err := writer.Execute(ctx, ops, writer.ExecuteOptions{
		DryRun:   opts.DryRun,
		Resolver: opts.Resolver,
		Writer:   opts.Report,
	})
	if err != nil {
		return result, fmt.Errorf("writing manifest: %w", err)
	}
	result.Written = report

	return result, nil
}
