package commands

import (
	"context"
	"errors"
	"fmt"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// UpdateSizeResult contains the result of a size update
type UpdateSizeResult struct {
	ID      int64
	Size    int64
	Message string
}

// UpdateSizeCommand records a new size for a registered file
type UpdateSizeCommand struct {
	store ports.ObjectStore
	ID    int64
	Size  int64
}

// NewUpdateSizeCommand creates a new UpdateSizeCommand
func NewUpdateSizeCommand(store ports.ObjectStore, id, size int64) *UpdateSizeCommand {
	return &UpdateSizeCommand{store: store, ID: id, Size: size}
}

// Validate checks if the update is valid
func (c *UpdateSizeCommand) Validate() error {
	if err := application.ValidateObjectID("objectID", c.ID); err != nil {
		return err
	}
	if c.Size < 0 {
		return &application.ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("size cannot be negative, got: %d", c.Size),
		}
	}
	return nil
}

// Execute runs the update
func (c *UpdateSizeCommand) Execute(ctx context.Context) (*UpdateSizeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	err := c.store.UpdateSize(ctx, c.ID, c.Size)
	if errors.Is(err, domain.ErrNodeNotFound) {
		return nil, fmt.Errorf("%w: %d has no source", application.ErrNotFound, c.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update size of %d: %w", c.ID, err)
	}
	return &UpdateSizeResult{
		ID:      c.ID,
		Size:    c.Size,
		Message: fmt.Sprintf("Updated %d to %d bytes", c.ID, c.Size),
	}, nil
}
