package ports

import (
	"context"

	"mediagraph/internal/domain"
)

// MediaWalker finds registrable paths below a directory
type MediaWalker interface {
	// Walk calls fn for every media file and save-data directory under root.
	// An error returned by fn stops the walk.
	Walk(ctx context.Context, root string, fn func(domain.ScanEntry) error) error
}
