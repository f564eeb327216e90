// Package plume holds build metadata for the plume CLI.
package plume

// Version is the current plume release.
const Version = "0.1.0"
