package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// IDKeyword is the schema keyword holding a document's canonical identifier.
const IDKeyword = "$id"

// SchemaIdentity is the canonical and relative identifier of a schema root.
type SchemaIdentity struct {
	Canonical *url.URL
	Relative  string
}

// String returns the canonical identifier.
func (id SchemaIdentity) String() string {
	if id.Canonical == nil {
		return ""
	}
	return id.Canonical.String()
}

// IsZero reports whether the identity is unset.
func (id SchemaIdentity) IsZero() bool {
	return id.Canonical == nil && id.Relative == ""
}

// RelativeFromURL derives the relative identifier of a canonical URI.
//
// The identifier is the escaped path with dot segments removed and exactly
// one leading "/" stripped, so "//a/b" yields "/a/b" and "x%2Fy.json" stays
// distinct from "x/y.json".
func RelativeFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.Opaque != "" {
		// urn:example:thing style identifiers carry their path in Opaque
		return u.Opaque
	}
	return strings.TrimPrefix(removeDotSegments(u.EscapedPath()), "/")
}

// removeDotSegments resolves "." and ".." segments of an absolute path
// (RFC 3986 section 5.2.4). Empty segments are kept.
func removeDotSegments(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}

	in := strings.Split(p[1:], "/")
	out := make([]string, 0, len(in))
	last := len(in) - 1
	for i, seg := range in {
		switch {
		case isDotSegment(seg):
		case isDotDotSegment(seg):
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
			continue
		}
		// a trailing dot segment leaves a directory path behind
		if i == last {
			out = append(out, "")
		}
	}
	return "/" + strings.Join(out, "/")
}

func isDotSegment(seg string) bool {
	return seg == "." || strings.EqualFold(seg, "%2e")
}

func isDotDotSegment(seg string) bool {
	switch strings.ToLower(seg) {
	case "..", ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}

// hierarchicalSchemes always name a host; "http:foo" is not a usable identifier.
var hierarchicalSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

// ParseCanonical parses raw as an absolute URI suitable for a schema "$id".
func ParseCanonical(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%q has no scheme", raw)
	}
	if hierarchicalSchemes[u.Scheme] && u.Host == "" {
		return nil, fmt.Errorf("%q has no host", raw)
	}
	if u.Host == "" && u.Opaque == "" && !strings.HasPrefix(u.Path, "/") {
		return nil, fmt.Errorf("%q has neither authority nor path", raw)
	}
	return u, nil
}

// Extractor derives schema identities and reports diagnostics to its logger.
type Extractor struct {
	logger logger.Logger
}

// NewExtractor creates an Extractor writing diagnostics to log.
// A nil log falls back to logger.Default().
func NewExtractor(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.Default()
	}
	return &Extractor{logger: log}
}

// Extract returns the identity declared by doc.
//
// The returned error is an *IdentityError matching one of ErrNoIdentity,
// ErrMalformedIdentityType or ErrMalformedIdentityURI under errors.Is.
func (x *Extractor) Extract(doc any) (SchemaIdentity, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		x.logger.Debug("Document is not an object, no $id", logger.F("type", jsonTypeName(doc)))
		return SchemaIdentity{}, &IdentityError{Reason: NoIdentityDeclared}
	}

	raw, ok := obj[IDKeyword]
	if !ok {
		x.logger.Debug("No $id value defined")
		return SchemaIdentity{}, &IdentityError{Reason: NoIdentityDeclared}
	}

	str, ok := raw.(string)
	if !ok {
		err := &IdentityError{Reason: MalformedIdentityType, Value: raw}
		x.logger.Error("Unable to read $id as a string",
			logger.F("value", raw),
			logger.F("type", jsonTypeName(raw)))
		return SchemaIdentity{}, err
	}

	canonical, parseErr := ParseCanonical(str)
	if parseErr != nil {
		err := &IdentityError{Reason: MalformedIdentityURI, Value: str, Err: parseErr}
		x.logger.Error("Unable to parse $id as an absolute URI",
			logger.F("value", str),
			logger.F("error", parseErr))
		return SchemaIdentity{}, err
	}

	id := SchemaIdentity{
		Canonical: canonical,
		Relative:  RelativeFromURL(canonical),
	}
	x.logger.Debug("Extracted schema identity",
		logger.F("canonical", id.String()),
		logger.F("relative", id.Relative))
	return id, nil
}

// ExtractIdentity extracts an identity using the default logger.
func ExtractIdentity(doc any) (SchemaIdentity, error) {
	return NewExtractor(nil).Extract(doc)
}

// jsonTypeName names the JSON type of a decoded value.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float64, int, int64, uint64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
