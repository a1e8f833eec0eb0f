// Package docstore persists whole JSON documents by name. A document is read
// and written in one piece; callers own decoding and there is no partial
// update. Two backends exist: FileStore keeps each document in its own file,
// PGStore keeps them as rows of a single Postgres table.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped in *Error) when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the contract shared by all document backends.
//
// Write replaces the whole document. Concurrent writers are not coordinated:
// the last Write wins.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
}

// Error reports a failed document operation.
type Error struct {
	Op   string // read, write, decode, encode
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
