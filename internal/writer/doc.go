// Package writer persists plume's outputs to disk.
//
// Writes are described as operations, validated as a batch, then executed.
// When a target already exists a Resolver decides whether to overwrite it,
// keep it, or show a diff first:
//
//	resolver, err := writer.NewResolver(force, skip, diff)
//	ops := []writer.Operation{&writer.WriteFileOp{Path: out, Content: data, Mode: 0644}}
//	report, err := writer.Execute(ctx, ops, writer.ExecuteOptions{Resolver: resolver})
//
// Transaction groups several files and removes the ones already written if
// a later write fails.
package writer
