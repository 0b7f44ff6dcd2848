package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedID int64
	Removed   []int64 // every node removed, starting with DeletedID
	Message   string
}

// DeleteCommand deletes an object by id or by source path.
// Nodes left without children or referrers are removed with it.
type DeleteCommand struct {
	store  ports.ObjectStore
	Target string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(store ports.ObjectStore, target string) *DeleteCommand {
	return &DeleteCommand{
		store:  store,
		Target: target,
	}
}

// Validate checks if the delete operation is valid.
// Category roots are refused: registrations link under them.
func (c *DeleteCommand) Validate() error {
	if err := application.ValidateRequired("target", c.Target); err != nil {
		return err
	}
	if c.isPath() {
		return nil
	}
	id, _ := application.ParseObjectID(c.Target)
	return application.ValidateNotRoot("target", id)
}

// isPath reports whether the target names a file rather than an id
func (c *DeleteCommand) isPath() bool {
	_, err := application.ParseObjectID(c.Target)
	return err != nil || strings.ContainsRune(c.Target, '/')
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var removed []int64
	if c.isPath() {
		removed, err = tx.DeletePath(ctx, c.Target)
	} else {
		id, _ := application.ParseObjectID(c.Target)
		removed, err = tx.Delete(ctx, id)
	}
	if errors.Is(err, domain.ErrNodeNotFound) {
		return nil, fmt.Errorf("%w: %s", application.ErrNotFound, c.Target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Target, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Target, err)
	}

	msg := fmt.Sprintf("Deleted %d", removed[0])
	if extra := len(removed) - 1; extra > 0 {
		msg += fmt.Sprintf(" and %d unreferenced object(s)", extra)
	}
	return &DeleteResult{
		DeletedID: removed[0],
		Removed:   removed,
		Message:   msg,
	}, nil
}
