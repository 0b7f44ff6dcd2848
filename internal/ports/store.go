package ports

import (
	"context"

	"mediagraph/internal/domain"
)

// ObjectStore provides persistent access to the content graph.
// Lookups that match nothing return sentinels rather than errors:
// -1 for an id, "" for a path, nil for an object.
type ObjectStore interface {
	// Lifecycle
	Open(dir string) error
	Initialize(ctx context.Context) error
	LastError() error
	Close() error

	// Source index
	PathID(ctx context.Context, path string) (int64, error)
	PathOf(ctx context.Context, id int64) (string, error)
	PathsUnder(prefix string) []string
	UpdateSize(ctx context.Context, id int64, size int64) error

	// Object queries
	Object(ctx context.Context, id int64) (*domain.ObjectNode, error)
	Children(ctx context.Context, id int64) ([]domain.ObjectNode, error)
	Parents(ctx context.Context, id int64) ([]domain.ObjectNode, error)
	Roots(ctx context.Context) ([]domain.ObjectNode, error)
	Source(ctx context.Context, id int64) (*domain.SourceRecord, error)
	Record(ctx context.Context, id int64) (domain.Record, error)
	Stats(ctx context.Context) (*domain.StoreStats, error)

	// Writes
	BeginTx(ctx context.Context) (StoreTx, error)
}

// StoreTx is one atomic unit of writes. Nothing it does is visible to
// readers, including the path cache, until Commit succeeds.
type StoreTx interface {
	// Object operations
	Node(ctx context.Context, id int64) (*domain.ObjectNode, error)
	InsertObject(ctx context.Context, title string, typ domain.ObjectType) (int64, error)
	PutObject(ctx context.Context, id int64, title string, typ domain.ObjectType) error
	FindGroup(ctx context.Context, title string, typ domain.ObjectType) (int64, error)

	// Edge operations; removals return the ids of every reclaimed node
	Link(ctx context.Context, parent, child int64) error
	Unlink(ctx context.Context, parent, child int64) ([]int64, error)
	Delete(ctx context.Context, id int64) ([]int64, error)
	DeletePath(ctx context.Context, path string) ([]int64, error)

	// Source and category rows
	PathID(ctx context.Context, path string) (int64, error)
	BindSource(ctx context.Context, rec *domain.SourceRecord) error
	PutRecord(ctx context.Context, rec domain.Record) error

	// Transaction control
	Commit() error
	Rollback() error
}
