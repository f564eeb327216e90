package schema

// Status is the result of a single registration.
type Status int

const (
	// Dropped means the document had no valid identity and was not stored.
	Dropped Status = iota
	// Stored means the document was stored under a previously free key.
	Stored
	// Replaced means the document overwrote a different document with the same relative identifier.
	Replaced
	// Unchanged means the document overwrote a JSON-equal document with the same relative identifier.
	Unchanged
)

// String returns the name of the status
func (s Status) String() string {
	switch s {
	case Dropped:
		return "dropped"
	case Stored:
		return "stored"
	case Replaced:
		return "replaced"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Outcome reports what Register did with a document.
type Outcome struct {
	Status   Status
	Source   string
	Identity SchemaIdentity

	// Err is set only for Dropped outcomes. It matches
	// ErrRegistrationWithoutIdentity and the extraction error under errors.Is.
	Err error
}

// Stored reports whether the document is now retrievable from the registry.
func (o Outcome) Stored() bool {
	return o.Status != Dropped
}

// Reason returns why the document was dropped, or 0 when it was stored.
func (o Outcome) Reason() Reason {
	return ReasonOf(o.Err)
}
