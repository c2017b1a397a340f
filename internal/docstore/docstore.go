package docstore

import (
	"context"
	"errors"
	"time"
)

// Document is the wire shape of a stored record: a flat JSON-like field map.
// Typed models encode into and decode out of it at the store boundary.
type Document map[string]any

// ErrNotFound is returned when a document or an expected field is absent.
var ErrNotFound = errors.New("docstore: document not found")

// Filter restricts a query to documents whose field equals the given value.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, optionally ordered read of a collection.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Snapshot is a queried document together with its id.
type Snapshot struct {
	ID   string
	Data Document
}

// Tx exposes the operations available inside a transaction. Reads must be
// issued before writes; the Firestore backend enforces this server-side.
type Tx interface {
	Get(collection, id string) (Document, error)
	Set(collection, id string, doc Document) error
	Delete(collection, id string) error
}

// Client is the document store contract: per-document CRUD, equality queries,
// optimistic transactions and query subscriptions against named collections.
// Backends exist for Firestore, MongoDB and an in-process memory store.
type Client interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes the full document, overwriting any existing one.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Merge writes the given fields, preserving unrelated fields and creating
	// the document if absent.
	Merge(ctx context.Context, collection, id string, fields Document) error
	// Update writes the given fields on an existing document; ErrNotFound if
	// the document is absent.
	Update(ctx context.Context, collection, id string, fields Document) error
	// ArrayUnion adds values to a string-array field as a set, creating the
	// document if absent. Idempotent.
	ArrayUnion(ctx context.Context, collection, id, field string, values ...string) error
	// ArrayRemove removes values from a string-array field. Removing from a
	// missing document or field is a no-op success.
	ArrayRemove(ctx context.Context, collection, id, field string, values ...string) error
	// Add creates a document under a store-generated id and returns the id.
	Add(ctx context.Context, collection string, doc Document) (string, error)
	// Delete removes the document; deleting a missing document succeeds.
	Delete(ctx context.Context, collection, id string) error
	// Query returns matching snapshots.
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	// RunTransaction executes fn atomically; an error from fn aborts every
	// write made through the Tx.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	// Watch invokes fn with the full current result of q, once immediately and
	// again after every relevant change, until the returned stop function is
	// called or ctx is done.
	Watch(ctx context.Context, collection string, q Query, fn func([]Snapshot)) (func(), error)
	Close() error
}

// String reads a string field, returning "" when absent or mistyped.
func String(d Document, field string) string {
	if v, ok := d[field].(string); ok {
		return v
	}
	return ""
}

// Bool reads a bool field, returning false when absent or mistyped.
func Bool(d Document, field string) bool {
	if v, ok := d[field].(bool); ok {
		return v
	}
	return false
}

// Time reads a timestamp field, returning the zero time when absent.
func Time(d Document, field string) time.Time {
	if v, ok := d[field].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Float reads a numeric field, accepting the integer widths backends decode to.
func Float(d Document, field string) float64 {
	switch v := d[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Strings reads a string-array field. Non-string elements are dropped, which
// also covers backends that decode arrays as []any.
func Strings(d Document, field string) []string {
	raw, ok := d[field]
	if !ok {
		return nil
	}
	switch arr := raw.(type) {
	case []string:
		out := make([]string, len(arr))
		copy(out, arr)
		return out
	case []any:
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringsStrict reads a string-array field but reports malformed content:
// a missing field or any non-string element yields ErrNotFound. Used where a
// corrupt list must abort an operation instead of silently shrinking.
func StringsStrict(d Document, field string) ([]string, error) {
	raw, ok := d[field]
	if !ok {
		return nil, ErrNotFound
	}
	switch arr := raw.(type) {
	case []string:
		out := make([]string, len(arr))
		copy(out, arr)
		return out, nil
	case []any:
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			s, ok := v.(string)
			if !ok {
				return nil, ErrNotFound
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, ErrNotFound
}
