// Package inputs reads schema documents from files and directories.
//
// Inputs that cannot be read or parsed are reported to the logger and
// dropped; callers only ever see documents that decoded successfully.
package inputs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/plume/internal/filesystem"
	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// StdinName is the input name that reads a document from standard input.
const StdinName = "-"

// Document is a successfully parsed input.
type Document struct {
	Source string
	Value  any
}

// Options configures a Loader
type Options struct {
	Walk    filesystem.WalkOptions
	Workers int       // Parallel parsers (default: runtime.NumCPU())
	Stdin   io.Reader // Source for StdinName (default: os.Stdin)
}

// Loader turns input names into parsed documents.
type Loader struct {
	opts   Options
	logger logger.Logger
}

// NewLoader creates a Loader. A nil log uses logger.Default().
func NewLoader(opts Options, log logger.Logger) *Loader {
	if log == nil {
		log = logger.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	return &Loader{opts: opts, logger: log}
}

// Expand resolves input names to file paths, keeping the given order.
// Directories are replaced by the schema files below them; names that do
// not exist are logged and skipped.
func (l *Loader) Expand(names []string) []string {
	files := make([]string, 0, len(names))
	for _, name := range names {
		if name == StdinName {
			files = append(files, name)
			continue
		}

		info, err := os.Stat(name)
		if err != nil {
			l.logger.Error("Failed to open input", logger.F("input", name), logger.F("error", err))
			continue
		}

		if !info.IsDir() {
			files = append(files, name)
			continue
		}

		found, err := filesystem.CollectFiles(name, l.opts.Walk)
		if err != nil {
			l.logger.Error("Failed to scan input directory", logger.F("input", name), logger.F("error", err))
			continue
		}
		l.logger.Debug("Expanded input directory", logger.F("input", name), logger.F("files", len(found)))
		files = append(files, found...)
	}
	return files
}

type parseJob struct {
	index int
	path  string
}

type parseResult struct {
	index int
	doc   any
	err   error
}

// Load reads and parses every input. Results keep the order of Expand so
// later documents override earlier ones deterministically when registered.
// The only error returned is ctx's.
func (l *Loader) Load(ctx context.Context, names []string) ([]Document, error) {
	files := l.Expand(names)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	results := make([]parseResult, len(files))
	jobs := make(chan parseJob, len(files))
	var wg sync.WaitGroup

	// stdin cannot be shared between workers, read it up front
	for i, path := range files {
		if path == StdinName {
			data, err := io.ReadAll(l.opts.Stdin)
			if err == nil {
				var doc any
				doc, err = Parse(path, data)
				results[i] = parseResult{index: i, doc: doc, err: err}
			} else {
				results[i] = parseResult{index: i, err: err}
			}
			continue
		}
		jobs <- parseJob{index: i, path: path}
	}
	close(jobs)

	workers := l.opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					results[job.index] = parseResult{index: job.index, err: ctx.Err()}
					continue
				}
				doc, err := ParseFile(job.path)
				results[job.index] = parseResult{index: job.index, doc: doc, err: err}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, res := range results {
		path := files[res.index]
		if res.err != nil {
			l.logger.Error("Failed to parse input", logger.F("input", path), logger.F("error", res.err))
			continue
		}
		l.logger.Debug("Parsed input", logger.F("input", path))
		docs = append(docs, Document{Source: path, Value: res.doc})
	}

	return docs, nil
}

// ParseFile reads and parses a single schema file.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data as YAML when name has a .yaml or .yml extension and as
// JSON otherwise. YAML mappings are normalised to map[string]any.
func Parse(name string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing JSON: unexpected data after document")
	}
	return v, nil
}

func parseYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return normalize(v), nil
}

// normalize converts YAML-decoded values into the shapes encoding/json produces.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case int, int64, uint64:
		return json.Number(fmt.Sprint(t))
	default:
		return v
	}
}
