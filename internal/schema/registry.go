package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// Entry is a registered schema document.
type Entry struct {
	Identity SchemaIdentity
	Document any    // stored as given, "$id" included
	Source   string // input name the document came from, may be empty
}

// Registry maps relative identifiers to schema documents.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	extractor *Extractor
	logger    logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the diagnostics sink for the registry and its extractor.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.logger = log
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*Entry),
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.extractor = NewExtractor(r.logger)
	return r
}

// Register stores doc under its relative identifier.
func (r *Registry) Register(doc any) Outcome {
	return r.RegisterFrom("", doc)
}

// RegisterFrom stores doc under its relative identifier, remembering the
// input it was read from. Documents without a valid identity are dropped;
// an existing entry with the same relative identifier is replaced.
func (r *Registry) RegisterFrom(source string, doc any) Outcome {
	log := r.logger
	if source != "" {
		log = log.WithFields(logger.F("source", source))
	}

	id, err := r.extractor.Extract(doc)
	if err != nil {
		log.Error("Unable to register a schema without a valid $id",
			logger.F("reason", ReasonOf(err)))
		return Outcome{
			Status: Dropped,
			Source: source,
			Err:    fmt.Errorf("%w: %w", ErrRegistrationWithoutIdentity, err),
		}
	}

	entry := &Entry{Identity: id, Document: doc, Source: source}

	r.mu.Lock()
	prev, exists := r.entries[id.Relative]
	r.entries[id.Relative] = entry
	r.mu.Unlock()

	status := Stored
	if exists {
		status = Replaced
		if documentsEqual(prev.Document, doc) {
			status = Unchanged
		}
		log.Debug("Replacing registered schema",
			logger.F("relative", id.Relative),
			logger.F("previous", prev.Identity.String()),
			logger.F("status", status))
	}

	log.Debug("Registered schema",
		logger.F("relative", id.Relative),
		logger.F("canonical", id.String()))

	return Outcome{Status: status, Source: source, Identity: id}
}

// Lookup returns the document registered under relative.
func (r *Registry) Lookup(relative string) (any, bool) {
	e, ok := r.Entry(relative)
	if !ok {
		return nil, false
	}
	return e.Document, true
}

// Entry returns the registry entry for relative.
func (r *Registry) Entry(relative string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[relative]
	return e, ok
}

// Size returns the number of stored entries.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns all entries sorted by relative identifier.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	result := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Identity.Relative < result[j].Identity.Relative
	})
	return result
}

// documentsEqual compares two decoded documents as JSON.
func documentsEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(ab, bb)
}
