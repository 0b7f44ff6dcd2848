package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mediagraph/internal/domain"
)

// PathID returns the object bound to path, or -1
func (s *Store) PathID(ctx context.Context, path string) (int64, error) {
	if id, ok := s.paths.get(path); ok {
		return id, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT object_id FROM sources WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	// written by another process since Initialize
	s.paths.set(path, id)
	return id, nil
}

// PathOf returns the path bound to id, or ""
func (s *Store) PathOf(ctx context.Context, id int64) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx, `SELECT path FROM sources WHERE object_id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// PathsUnder lists registered paths beginning with prefix, in order
func (s *Store) PathsUnder(prefix string) []string {
	return s.paths.under(prefix)
}

// UpdateSize sets the size recorded for a source
func (s *Store) UpdateSize(ctx context.Context, id int64, size int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sources SET size = ? WHERE object_id = ?`, size, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no source for %d", domain.ErrNodeNotFound, id)
	}
	return nil
}

// Object returns a node by id, or nil
func (s *Store) Object(ctx context.Context, id int64) (*domain.ObjectNode, error) {
	return scanNode(s.db.QueryRowContext(ctx, `
		SELECT object_id, type, title, child_count, reference_count
		FROM object_node WHERE object_id = ?
	`, id))
}

// Children returns the nodes linked under id, ordered by title
func (s *Store) Children(ctx context.Context, id int64) ([]domain.ObjectNode, error) {
	return s.queryNodes(ctx, `
		SELECT n.object_id, n.type, n.title, n.child_count, n.reference_count
		FROM adjacent_objects a JOIN object_node n ON n.object_id = a.child_id
		WHERE a.parent_id = ?
		ORDER BY n.title, n.object_id
	`, id)
}

// Parents returns the nodes id is linked under
func (s *Store) Parents(ctx context.Context, id int64) ([]domain.ObjectNode, error) {
	return s.queryNodes(ctx, `
		SELECT n.object_id, n.type, n.title, n.child_count, n.reference_count
		FROM adjacent_objects a JOIN object_node n ON n.object_id = a.parent_id
		WHERE a.child_id = ?
		ORDER BY n.object_id
	`, id)
}

// Roots returns the category roots
func (s *Store) Roots(ctx context.Context) ([]domain.ObjectNode, error) {
	return s.queryNodes(ctx, `
		SELECT object_id, type, title, child_count, reference_count
		FROM object_node WHERE (type & ?) != 0
		ORDER BY object_id
	`, uint32(domain.TypeRoot))
}

func (s *Store) queryNodes(ctx context.Context, query string, args ...any) ([]domain.ObjectNode, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []domain.ObjectNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}

// Source returns the source record of id, or nil
func (s *Store) Source(ctx context.Context, id int64) (*domain.SourceRecord, error) {
	var rec domain.SourceRecord
	var created, modified sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT object_id, path, size, date_created, date_modified
		FROM sources WHERE object_id = ?
	`, id).Scan(&rec.ObjectID, &rec.Path, &rec.Size, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.DateCreated = fromNullTime(created)
	rec.DateModified = fromNullTime(modified)
	return &rec, nil
}

// Record returns the category row of id, or nil when the node has none
func (s *Store) Record(ctx context.Context, id int64) (domain.Record, error) {
	node, err := s.Object(ctx, id)
	if err != nil || node == nil {
		return nil, err
	}

	var rec domain.Record
	switch {
	case node.Type.Has(domain.TypeMusic):
		rec, err = s.musicRecord(ctx, id)
	case node.Type.Has(domain.TypePhoto):
		rec, err = s.photoRecord(ctx, id)
	case node.Type.Has(domain.TypeVideo):
		rec, err = s.videoRecord(ctx, id)
	case node.Type.Has(domain.TypeSaveData):
		rec, err = s.saveDataRecord(ctx, id)
	default:
		return nil, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (s *Store) musicRecord(ctx context.Context, id int64) (domain.Record, error) {
	var r domain.MusicRecord
	var genre, track, artistID, album sql.NullInt64
	var artist, albumName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT object_id, file_format, audio_codec, audio_bitrate, duration,
			genre_id, track_id, artist_id, album_id, artist, album, track_number
		FROM music WHERE object_id = ?
	`, id).Scan(&r.ObjectID, &r.FileFormat, &r.AudioCodec, &r.AudioBitrate, &r.Duration,
		&genre, &track, &artistID, &album, &artist, &albumName, &r.TrackNumber)
	if err != nil {
		return nil, err
	}
	r.GenreID, r.TrackID, r.ArtistID, r.AlbumID = genre.Int64, track.Int64, artistID.Int64, album.Int64
	r.Artist, r.Album = artist.String, albumName.String
	return &r, nil
}

func (s *Store) photoRecord(ctx context.Context, id int64) (domain.Record, error) {
	var r domain.PhotoRecord
	var created sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT object_id, date_created, file_format, photo_codec, width, height
		FROM photos WHERE object_id = ?
	`, id).Scan(&r.ObjectID, &created, &r.FileFormat, &r.PhotoCodec, &r.Width, &r.Height)
	if err != nil {
		return nil, err
	}
	r.DateCreated = fromNullTime(created)
	return &r, nil
}

func (s *Store) videoRecord(ctx context.Context, id int64) (domain.Record, error) {
	var r domain.VideoRecord
	var explanation, copyright sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT object_id, file_format, parental_level, explanation, copyright,
			width, height, video_codec, video_bitrate, audio_codec, audio_bitrate, duration
		FROM videos WHERE object_id = ?
	`, id).Scan(&r.ObjectID, &r.FileFormat, &r.ParentalLevel, &explanation, &copyright,
		&r.Width, &r.Height, &r.VideoCodec, &r.VideoBitrate, &r.AudioCodec, &r.AudioBitrate, &r.Duration)
	if err != nil {
		return nil, err
	}
	r.Explanation, r.Copyright = explanation.String, copyright.String
	return &r, nil
}

func (s *Store) saveDataRecord(ctx context.Context, id int64) (domain.Record, error) {
	var r domain.SaveDataRecord
	var detail, dirName, title sql.NullString
	var updated sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT object_id, detail, dir_name, title, date_updated
		FROM savedata WHERE object_id = ?
	`, id).Scan(&r.ObjectID, &detail, &dirName, &title, &updated)
	if err != nil {
		return nil, err
	}
	r.Detail, r.DirName, r.Title = detail.String, dirName.String, title.String
	r.DateUpdated = fromNullTime(updated)
	return &r, nil
}

// Stats counts the rows of every table
func (s *Store) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{NextID: s.ids.Peek()}
	counts := []struct {
		table string
		dst   *int
	}{
		{"object_node", &stats.Objects},
		{"adjacent_objects", &stats.Edges},
		{"sources", &stats.Sources},
		{"music", &stats.Music},
		{"photos", &stats.Photos},
		{"videos", &stats.Videos},
		{"savedata", &stats.SaveData},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
