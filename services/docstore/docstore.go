// Package docstore wraps a named-collection document database behind a
// small CRUD surface. Documents are string-keyed maps addressed by string
// IDs; shape is a convention owned by callers, not a constraint enforced
// here. Every operation round-trips to the backend: no retry, no offline
// queue, no caching.
package docstore

import "context"

// Document is a single record's payload.
type Document = map[string]any

// Filter is one query constraint. Operators follow the backend's set:
// "==", "!=", "<", "<=", ">", ">=", "in", "array-contains".
type Filter struct {
	Path  string
	Op    string
	Value any
}

// Store is the generic persistence contract. GetByID reports a missing
// document as (nil, nil), never as an error; all other failures surface as
// errors for callers to translate into user-facing messages.
type Store interface {
	// GetByID returns the document or (nil, nil) when the ID does not exist.
	GetByID(ctx context.Context, collection, id string) (Document, error)
	// GetAll returns the full materialized collection. No pagination.
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// Query returns documents matching every filter. Index requirements are
	// the backend's problem, not this layer's.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// Set writes the document. With merge, fields absent from data survive;
	// without, the stored document is replaced wholesale.
	Set(ctx context.Context, collection, id string, data Document, merge bool) error
	// Update applies a partial merge of the given fields.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Create writes the document only when the ID is not already taken.
	// Returns ErrExists otherwise.
	Create(ctx context.Context, collection, id string, data Document) error
	// Add writes the document under a store-generated ID and returns it.
	Add(ctx context.Context, collection string, data Document) (string, error)
	Delete(ctx context.Context, collection, id string) error
}
