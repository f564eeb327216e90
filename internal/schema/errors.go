package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentity means the document declares no "$id". Expected for inline fragments.
	ErrNoIdentity = errors.New("no $id declared")
	// ErrMalformedIdentityType means "$id" is present but not a string.
	ErrMalformedIdentityType = errors.New("$id is not a string")
	// ErrMalformedIdentityURI means "$id" is a string but not an absolute URI.
	ErrMalformedIdentityURI = errors.New("$id is not an absolute URI")
	// ErrRegistrationWithoutIdentity means Register dropped a document lacking a valid identity.
	ErrRegistrationWithoutIdentity = errors.New("cannot register a schema without a valid identifier")
)

// Reason classifies why identity extraction yielded nothing.
type Reason int

const (
	NoIdentityDeclared Reason = iota + 1
	MalformedIdentityType
	MalformedIdentityURI
)

// String returns the name of the reason
func (r Reason) String() string {
	switch r {
	case NoIdentityDeclared:
		return "NoIdentityDeclared"
	case MalformedIdentityType:
		return "MalformedIdentityType"
	case MalformedIdentityURI:
		return "MalformedIdentityUri"
	default:
		return "Unknown"
	}
}

func (r Reason) sentinel() error {
	switch r {
	case NoIdentityDeclared:
		return ErrNoIdentity
	case MalformedIdentityType:
		return ErrMalformedIdentityType
	case MalformedIdentityURI:
		return ErrMalformedIdentityURI
	default:
		return nil
	}
}

// IdentityError describes a document for which no identity could be derived.
type IdentityError struct {
	Reason Reason
	Value  any   // offending "$id" value, nil when absent
	Err    error // underlying URI parse error, if any
}

// Error returns a formatted error message
func (e *IdentityError) Error() string {
	msg := "identity error"
	if s := e.Reason.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the sentinel for Reason and the parse error.
func (e *IdentityError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Reason.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ReasonOf returns the Reason carried by err, or 0 if err is not an identity error.
func ReasonOf(err error) Reason {
	var idErr *IdentityError
	if errors.As(err, &idErr) {
		return idErr.Reason
	}
	return 0
}
