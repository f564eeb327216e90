// Package manifest renders an index of a schema registry.
//
// A manifest lists every registered schema by relative identifier with its
// canonical identifier and the input it came from. It is an index for
// tooling and review, not a bundled schema document.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/plume/internal/schema"
)

// Format is a manifest encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (want json or yaml)", name)
	}
}

// FormatForPath picks a format from a file extension, falling back to def.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return def
	}
}

// Schema is one manifest row
type Schema struct {
	Relative  string `json:"relative" yaml:"relative"`
	Canonical string `json:"canonical" yaml:"canonical"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Manifest is the serialized registry index
type Manifest struct {
	Generator string   `json:"generator" yaml:"generator"`
	Count     int      `json:"count" yaml:"count"`
	Schemas   []Schema `json:"schemas" yaml:"schemas"`
}

// Build snapshots reg into a manifest sorted by relative identifier.
func Build(reg *schema.Registry, generator string) *Manifest {
	entries := reg.Entries()
	m := &Manifest{
		Generator: generator,
		Count:     len(entries),
		Schemas:   make([]Schema, 0, len(entries)),
	}
	for _, e := range entries {
		m.Schemas = append(m.Schemas, Schema{
			Relative:  e.Identity.Relative,
			Canonical: e.Identity.String(),
			Source:    e.Source,
		})
	}
	return m
}

// Encode renders the manifest, always ending with a newline.
func (m *Manifest) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}
