// Package schema establishes identity for JSON Schema documents and keeps
// them in an in-memory registry for later bundling passes.
//
// # Identity
//
// A document is a schema root when its top-level object declares a string
// "$id" holding an absolute URI. The URI is its canonical identifier; the
// relative identifier is the URI path with one leading "/" removed:
//
//	id, err := schema.ExtractIdentity(doc)
//	// "https://foo.com/somelocation/schema.json" -> "somelocation/schema.json"
//
// Documents without "$id" are expected (inline fragments) and are reported
// with ErrNoIdentity. A non-string "$id" or an "$id" that is not an absolute
// URI are reported with ErrMalformedIdentityType and ErrMalformedIdentityURI.
//
// # Registry
//
// Registry stores documents keyed by relative identifier:
//
//	reg := schema.NewRegistry(schema.WithLogger(log))
//	outcome := reg.Register(doc)
//	if !outcome.Stored() {
//	    // dropped: outcome.Err explains why
//	}
//	stored, ok := reg.Lookup("somelocation/schema.json")
//
// Registration never fails from the caller's point of view. The Outcome
// reports whether the document was stored, replaced an earlier entry with the
// same relative identifier (last write wins), or was dropped.
package schema
