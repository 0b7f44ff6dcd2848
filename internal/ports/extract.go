package ports

import "mediagraph/internal/domain"

// MediaDecoder reads technical metadata from a media file.
// Codec queries are only valid after LoadCodec selected a stream.
type MediaDecoder interface {
	Open(path string) error
	Close() error

	MetadataEntry(key, def string) string
	Bitrate() int
	Duration() int64 // milliseconds
	Width() int
	Height() int

	LoadCodec(kind domain.StreamKind) bool
	CodecName() string
	CodecBitrate() int
}

// SaveDescriptorReader parses the descriptor file of a save-data directory
type SaveDescriptorReader interface {
	Load(path string) error
	Value(key, def string) string
}

// FileAttributes reports size and timestamps of a path
type FileAttributes interface {
	Stat(path string) (*domain.FileAttrs, error)
}
