// Package remote defines the contract to the cloud document store that
// households share, plus an in-memory implementation used for tests and local
// development. Collections are addressed by path, e.g.
// "households/{householdID}/containers".
package remote

import (
	"context"
	"encoding/json"
	"fmt"
)

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// DocumentChange is one document-level notification inside a change batch.
// Data is nil for removed documents.
type DocumentChange struct {
	Kind ChangeKind
	ID   string
	Data json.RawMessage
}

type Document struct {
	ID   string
	Data json.RawMessage
}

// Write is one entry of an atomic batch commit.
type Write struct {
	Collection string
	ID         string
	Doc        any
}

// Subscription delivers change batches for one collection. Changes yields the
// current collection contents as an initial added-batch, then incremental
// batches. After Unsubscribe returns the channel is closed and no further
// batch is delivered.
type Subscription interface {
	Changes() <-chan []DocumentChange
	Errs() <-chan error
	Unsubscribe()
}

type Store interface {
	Subscribe(collection string) (Subscription, error)
	Put(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	// Commit applies all writes atomically: either every document is stored
	// or none is.
	Commit(ctx context.Context, writes []Write) error
	QueryLatest(ctx context.Context, collection, orderField string, limit int) ([]Document, error)
}

// CollectionPath builds the path of a household-scoped collection.
func CollectionPath(householdID, collection string) string {
	return fmt.Sprintf("households/%s/%s", householdID, collection)
}
