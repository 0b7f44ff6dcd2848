package domain

import "time"

// SourceRecord binds a file-system path to the node that represents it
type SourceRecord struct {
	ObjectID     int64
	Path         string
	Size         int64
	DateCreated  time.Time
	DateModified time.Time
}

// FileAttrs are the file-system attributes of a registered path
type FileAttrs struct {
	Size     int64
	Created  time.Time
	Modified time.Time
	IsDir    bool
}

// NewSourceRecord builds the source row for a path from its attributes
func NewSourceRecord(id int64, path string, attrs *FileAttrs) *SourceRecord {
	rec := &SourceRecord{ObjectID: id, Path: path}
	if attrs != nil {
		rec.Size = attrs.Size
		rec.DateCreated = attrs.Created
		rec.DateModified = attrs.Modified
	}
	return rec
}

// ScanEntry is a path found while walking a directory tree, together with
// the category it would be registered under
type ScanEntry struct {
	Path     string
	Category Category
}
