package commands

import (
	"context"
	"fmt"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// ListRootsCommand lists the category roots
type ListRootsCommand struct {
	store ports.ObjectStore
}

// NewListRootsCommand creates a new ListRootsCommand
func NewListRootsCommand(store ports.ObjectStore) *ListRootsCommand {
	return &ListRootsCommand{store: store}
}

// Execute runs the list roots command
func (c *ListRootsCommand) Execute(ctx context.Context) ([]domain.ObjectNode, error) {
	return c.store.Roots(ctx)
}

// ListChildrenCommand lists the nodes linked under a parent
type ListChildrenCommand struct {
	store    ports.ObjectStore
	ParentID int64
}

// NewListChildrenCommand creates a new ListChildrenCommand
func NewListChildrenCommand(store ports.ObjectStore, parentID int64) *ListChildrenCommand {
	return &ListChildrenCommand{
		store:    store,
		ParentID: parentID,
	}
}

// Execute runs the list children command
func (c *ListChildrenCommand) Execute(ctx context.Context) ([]domain.ObjectNode, error) {
	if err := application.ValidateObjectID("parentID", c.ParentID); err != nil {
		return nil, err
	}
	parent, err := c.store.Object(ctx, c.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: %d", application.ErrNotFound, c.ParentID)
	}
	return c.store.Children(ctx, c.ParentID)
}

// StatsCommand counts the rows of the store
type StatsCommand struct {
	store ports.ObjectStore
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(store ports.ObjectStore) *StatsCommand {
	return &StatsCommand{store: store}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context) (*domain.StoreStats, error) {
	return c.store.Stats(ctx)
}
