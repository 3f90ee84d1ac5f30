// Package docstore is the document-database boundary: schemaless JSON
// records grouped into collections, scoped by owner id, with live
// owner-scoped snapshot watches. Consumers decode the raw documents
// themselves so that one malformed record never aborts a snapshot.
package docstore

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get for an id that does not exist in the
// owner's slice of the collection.
var ErrNotFound = errors.New("docstore: document not found")

// RawDoc is one stored document as delivered to a watcher.
type RawDoc struct {
	ID   string
	Data []byte
}

// Snapshot is the full, ordered (sort key descending) result of an
// owner-scoped collection query. Every change delivers a fresh one.
type Snapshot []RawDoc

// Backend is the set of operations the stores need from the document
// database.
type Backend interface {
	// NewID returns a fresh document id, usable before the first write.
	NewID() string
	// Get fetches one document by id, scoped to its owner. A missing
	// document is ErrNotFound.
	Get(collection, id, ownerID string) (RawDoc, error)
	// Put creates a document with the given id.
	Put(collection, id, ownerID string, sortKey time.Time, data []byte) error
	// Merge upserts a document, updating only the given fields and
	// leaving the rest of the stored document untouched.
	Merge(collection, id, ownerID string, sortKey time.Time, fields map[string]any) error
	// Delete removes a document by id. Deleting a missing document is
	// not an error.
	Delete(collection, id string) error
	// Watch opens a live feed for one owner's slice of a collection.
	// The current snapshot is delivered first, then a new snapshot on
	// every change.
	Watch(collection, ownerID string) (*Subscription, error)
}
