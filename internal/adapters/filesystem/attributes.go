package filesystem

import (
	"fmt"
	"os"

	"mediagraph/internal/domain"
)

// Attributes implements ports.FileAttributes using os.Stat
type Attributes struct{}

// NewAttributes creates a new Attributes reader
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Stat reports the size and timestamps of path. The portable file info
// carries no birth time, so Created falls back to the modification time.
func (a *Attributes) Stat(path string) (*domain.FileAttrs, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return &domain.FileAttrs{
		Size:     info.Size(),
		Created:  info.ModTime(),
		Modified: info.ModTime(),
		IsDir:    info.IsDir(),
	}, nil
}
