package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// ScanResult contains statistics about a scan
type ScanResult struct {
	Found       int
	Registered  int
	Unchanged   int
	Failed      int
	Pruned      int
	FailedPaths []string
	Message     string
}

// ScanCommand registers every media file and save-data directory under a
// root. Paths already registered are left alone unless Refresh is set.
type ScanCommand struct {
	store   ports.ObjectStore
	extract Extractors
	walker  ports.MediaWalker
	Root    string
	Refresh bool
	Prune   bool
	DryRun  bool

	// OnEntry is called after each entry is handled (optional)
	OnEntry func(entry domain.ScanEntry, err error)
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand(store ports.ObjectStore, ex Extractors, walker ports.MediaWalker, root string) *ScanCommand {
	return &ScanCommand{
		store:   store,
		extract: ex,
		walker:  walker,
		Root:    root,
	}
}

// Validate checks if the scan operation is valid
func (c *ScanCommand) Validate() error {
	return application.ValidateRequired("root", c.Root)
}

// Execute walks the root. A file that fails to register is counted and
// the scan moves on.
func (c *ScanCommand) Execute(ctx context.Context) (*ScanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", c.Root, err)
	}

	var known map[string]bool
	if c.Prune {
		known = make(map[string]bool)
		prefix := root
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		for _, p := range c.store.PathsUnder(prefix) {
			known[p] = true
		}
	}

	result := &ScanResult{}
	err = c.walker.Walk(ctx, root, func(e domain.ScanEntry) error {
		result.Found++
		delete(known, e.Path)

		handleErr := c.handle(ctx, e, result)
		if handleErr != nil {
			result.Failed++
			result.FailedPaths = append(result.FailedPaths, e.Path)
		}
		if c.OnEntry != nil {
			c.OnEntry(e, handleErr)
		}
		// keep going past bad files, stop on cancellation
		return ctx.Err()
	})
	if err != nil {
		return result, fmt.Errorf("scan of %s stopped: %w", root, err)
	}

	for path := range known {
		if c.DryRun {
			result.Pruned++
			continue
		}
		_, err := NewDeleteCommand(c.store, path).Execute(ctx)
		if err != nil && !errors.Is(err, application.ErrNotFound) {
			return result, err
		}
		result.Pruned++
	}

	result.Message = fmt.Sprintf("Scanned %s: %d found, %d registered, %d unchanged, %d failed, %d pruned",
		root, result.Found, result.Registered, result.Unchanged, result.Failed, result.Pruned)
	return result, nil
}

func (c *ScanCommand) handle(ctx context.Context, e domain.ScanEntry, result *ScanResult) error {
	if !c.Refresh {
		id, err := c.store.PathID(ctx, e.Path)
		if err != nil {
			return err
		}
		if id >= 0 {
			result.Unchanged++
			return nil
		}
	}
	if c.DryRun {
		result.Registered++
		return nil
	}
	if _, err := NewRegisterCommand(c.store, c.extract, e.Category, e.Path).Execute(ctx); err != nil {
		return err
	}
	result.Registered++
	return nil
}
