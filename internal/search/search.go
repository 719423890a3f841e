// Package search runs full-text queries across the task, charity and user
// collections and keeps their documents in sync.
package search

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable is returned when the search backend cannot be reached or
// is not configured.
var ErrUnavailable = errors.New("search backend unavailable")

type Collection string

const (
	CollectionTasks     Collection = "tasks"
	CollectionCharities Collection = "charities"
	CollectionUsers     Collection = "users"
)

// AllCollections is searched when the caller names none.
var AllCollections = []Collection{CollectionTasks, CollectionCharities, CollectionUsers}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	switch c {
	case CollectionTasks, CollectionCharities, CollectionUsers:
		return true
	}
	return false
}

// Hit is one matching document tagged with the collection it came from.
type Hit struct {
	Collection Collection      `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// Engine is a full-text search backend.
type Engine interface {
	// Search matches query against every field of documents in collections.
	Search(ctx context.Context, query string, collections []Collection) ([]Hit, error)
	// SearchWithin is Search restricted to one collection and the given document ids.
	SearchWithin(ctx context.Context, query string, collection Collection, ids []string) ([]Hit, error)
	// Index creates or replaces a document.
	Index(ctx context.Context, collection Collection, id string, doc interface{}) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection Collection, id string) error
}

// Disabled is the Engine used when no backend is configured. Queries fail
// with ErrUnavailable; writes are dropped.
type Disabled struct{}

func (Disabled) Search(context.Context, string, []Collection) ([]Hit, error) {
	return nil, ErrUnavailable
}

func (Disabled) SearchWithin(context.Context, string, Collection, []string) ([]Hit, error) {
	return nil, ErrUnavailable
}

func (Disabled) Index(context.Context, Collection, string, interface{}) error { return nil }

func (Disabled) Delete(context.Context, Collection, string) error { return nil }
