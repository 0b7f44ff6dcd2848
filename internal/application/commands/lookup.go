package commands

import (
	"context"
	"fmt"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// LookupResult contains the result of resolving a path or an id.
// ID is -1 and Path is empty when nothing matched.
type LookupResult struct {
	ID      int64
	Path    string
	Found   bool
	Message string
}

// LookupPathCommand resolves a source path to its object id
type LookupPathCommand struct {
	store ports.ObjectStore
	Path  string
}

// NewLookupPathCommand creates a new LookupPathCommand
func NewLookupPathCommand(store ports.ObjectStore, path string) *LookupPathCommand {
	return &LookupPathCommand{store: store, Path: path}
}

// Execute runs the lookup
func (c *LookupPathCommand) Execute(ctx context.Context) (*LookupResult, error) {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return nil, err
	}
	id, err := c.store.PathID(ctx, c.Path)
	if err != nil {
		return nil, err
	}
	res := &LookupResult{ID: id, Path: c.Path, Found: id >= 0}
	if res.Found {
		res.Message = fmt.Sprintf("%d", id)
	} else {
		res.Path = ""
		res.Message = fmt.Sprintf("%s is not registered", c.Path)
	}
	return res, nil
}

// LookupIDCommand resolves an object id to its source path
type LookupIDCommand struct {
	store ports.ObjectStore
	ID    int64
}

// NewLookupIDCommand creates a new LookupIDCommand
func NewLookupIDCommand(store ports.ObjectStore, id int64) *LookupIDCommand {
	return &LookupIDCommand{store: store, ID: id}
}

// Execute runs the lookup
func (c *LookupIDCommand) Execute(ctx context.Context) (*LookupResult, error) {
	if err := application.ValidateObjectID("objectID", c.ID); err != nil {
		return nil, err
	}
	path, err := c.store.PathOf(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	res := &LookupResult{ID: c.ID, Path: path, Found: path != ""}
	if res.Found {
		res.Message = path
	} else {
		res.ID = -1
		res.Message = fmt.Sprintf("%d has no source", c.ID)
	}
	return res, nil
}

// ObjectDetails is a node together with its source, category row and edges
type ObjectDetails struct {
	Node     *domain.ObjectNode
	Source   *domain.SourceRecord
	Record   domain.Record
	Parents  []domain.ObjectNode
	Children []domain.ObjectNode
}

// GetObjectCommand loads everything stored about one object
type GetObjectCommand struct {
	store ports.ObjectStore
	ID    int64
}

// NewGetObjectCommand creates a new GetObjectCommand
func NewGetObjectCommand(store ports.ObjectStore, id int64) *GetObjectCommand {
	return &GetObjectCommand{store: store, ID: id}
}

// Execute runs the command
func (c *GetObjectCommand) Execute(ctx context.Context) (*ObjectDetails, error) {
	if err := application.ValidateObjectID("objectID", c.ID); err != nil {
		return nil, err
	}
	node, err := c.store.Object(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %d", application.ErrNotFound, c.ID)
	}

	d := &ObjectDetails{Node: node}
	if d.Source, err = c.store.Source(ctx, c.ID); err != nil {
		return nil, err
	}
	if d.Record, err = c.store.Record(ctx, c.ID); err != nil {
		return nil, err
	}
	if d.Parents, err = c.store.Parents(ctx, c.ID); err != nil {
		return nil, err
	}
	if d.Children, err = c.store.Children(ctx, c.ID); err != nil {
		return nil, err
	}
	return d, nil
}
