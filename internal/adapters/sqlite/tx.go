package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// storeTx implements ports.StoreTx. It is also the domain.GraphStore the
// graph algorithm runs against, so every cascade stays inside the
// transaction.
type storeTx struct {
	store   *Store
	tx      *sql.Tx
	graph   *domain.Graph
	pending []cacheOp
	done    bool
}

var (
	_ ports.StoreTx     = (*storeTx)(nil)
	_ domain.GraphStore = (*storeTx)(nil)
)

// InsertObject allocates a fresh id and inserts a node
func (t *storeTx) InsertObject(ctx context.Context, title string, typ domain.ObjectType) (int64, error) {
	id := t.store.ids.Next()
	if err := t.insertNode(ctx, id, title, typ); err != nil {
		return 0, err
	}
	return id, nil
}

// PutObject writes a node with an explicit id, deleting (with cascade)
// whatever node held the id before.
func (t *storeTx) PutObject(ctx context.Context, id int64, title string, typ domain.ObjectType) error {
	existing, err := t.Node(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		if _, err := t.graph.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to replace object %d: %w", id, err)
		}
	}
	if !t.store.ids.Reserved(id) {
		t.store.ids.Observe(id)
	}
	return t.insertNode(ctx, id, title, typ)
}

func (t *storeTx) insertNode(ctx context.Context, id int64, title string, typ domain.ObjectType) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO object_node (object_id, type, title) VALUES (?, ?, ?)
	`, id, uint32(typ), title)
	if err != nil {
		return fmt.Errorf("failed to insert object %d: %w", id, err)
	}
	if t.store.ids.Reserved(id) {
		return nil
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO meta (key, value) VALUES ('next_object_id', ?)
	`, strconv.FormatInt(t.store.ids.Peek(), 10))
	return err
}

// FindGroup returns the oldest node with the given title and type, or -1
func (t *storeTx) FindGroup(ctx context.Context, title string, typ domain.ObjectType) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT object_id FROM object_node
		WHERE type = ? AND title = ?
		ORDER BY object_id LIMIT 1
	`, uint32(typ), title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return id, nil
}

// Link adds an edge and bumps both counters
func (t *storeTx) Link(ctx context.Context, parent, child int64) error {
	return t.graph.Link(ctx, parent, child)
}

// Unlink removes an edge and reclaims nodes left empty or unreferenced
func (t *storeTx) Unlink(ctx context.Context, parent, child int64) ([]int64, error) {
	return t.graph.Unlink(ctx, parent, child)
}

// Delete removes a node and everything the removal leaves unreachable
func (t *storeTx) Delete(ctx context.Context, id int64) ([]int64, error) {
	removed, err := t.graph.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	t.store.log.Debug("deleted %d, collected %v", id, removed)
	return removed, nil
}

// DeletePath deletes the node bound to path
func (t *storeTx) DeletePath(ctx context.Context, path string) ([]int64, error) {
	id, err := t.PathID(ctx, path)
	if err != nil {
		return nil, err
	}
	if id < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, path)
	}
	return t.Delete(ctx, id)
}

// PathID resolves a path inside the transaction, -1 when unbound
func (t *storeTx) PathID(ctx context.Context, path string) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT object_id FROM sources WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return id, nil
}

// BindSource writes the source record of a node
func (t *storeTx) BindSource(ctx context.Context, rec *domain.SourceRecord) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO sources (object_id, path, size, date_created, date_modified)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ObjectID, rec.Path, rec.Size, nullTime(rec.DateCreated), nullTime(rec.DateModified))
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", rec.Path, err)
	}
	t.pending = append(t.pending, cacheOp{path: rec.Path, id: rec.ObjectID})
	return nil
}

// PutRecord writes the category row of a node
func (t *storeTx) PutRecord(ctx context.Context, rec domain.Record) error {
	var err error
	switch r := rec.(type) {
	case *domain.MusicRecord:
		_, err = t.tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO music (
				object_id, file_format, audio_codec, audio_bitrate, duration,
				genre_id, track_id, artist_id, album_id, artist, album, track_number
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ObjectID, r.FileFormat, r.AudioCodec, r.AudioBitrate, r.Duration,
			nullID(r.GenreID), nullID(r.TrackID), nullID(r.ArtistID), nullID(r.AlbumID),
			nullString(r.Artist), nullString(r.Album), r.TrackNumber)
	case *domain.PhotoRecord:
		_, err = t.tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO photos (
				object_id, date_created, file_format, photo_codec, width, height
			) VALUES (?, ?, ?, ?, ?, ?)
		`, r.ObjectID, nullTime(r.DateCreated), r.FileFormat, r.PhotoCodec, r.Width, r.Height)
	case *domain.VideoRecord:
		_, err = t.tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO videos (
				object_id, file_format, parental_level, explanation, copyright,
				width, height, video_codec, video_bitrate, audio_codec, audio_bitrate, duration
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ObjectID, r.FileFormat, r.ParentalLevel, nullString(r.Explanation), nullString(r.Copyright),
			r.Width, r.Height, r.VideoCodec, r.VideoBitrate, r.AudioCodec, r.AudioBitrate, r.Duration)
	case *domain.SaveDataRecord:
		_, err = t.tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO savedata (
				object_id, detail, dir_name, title, date_updated
			) VALUES (?, ?, ?, ?, ?)
		`, r.ObjectID, nullString(r.Detail), nullString(r.DirName), nullString(r.Title), nullTime(r.DateUpdated))
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s row: %w", rec.Category(), err)
	}
	return nil
}

// Commit commits the transaction and publishes its path changes
func (t *storeTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return err
	}
	t.done = true
	t.store.paths.apply(t.pending)
	t.pending = nil
	return nil
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *storeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.pending = nil
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// --- domain.GraphStore ---

func (t *storeTx) Node(ctx context.Context, id int64) (*domain.ObjectNode, error) {
	return scanNode(t.tx.QueryRowContext(ctx, `
		SELECT object_id, type, title, child_count, reference_count
		FROM object_node WHERE object_id = ?
	`, id))
}

func (t *storeTx) ChildIDs(ctx context.Context, id int64) ([]int64, error) {
	return queryIDs(ctx, t.tx, `SELECT child_id FROM adjacent_objects WHERE parent_id = ? ORDER BY child_id`, id)
}

func (t *storeTx) ParentIDs(ctx context.Context, id int64) ([]int64, error) {
	return queryIDs(ctx, t.tx, `SELECT parent_id FROM adjacent_objects WHERE child_id = ? ORDER BY parent_id`, id)
}

func (t *storeTx) HasEdge(ctx context.Context, parent, child int64) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `
		SELECT 1 FROM adjacent_objects WHERE parent_id = ? AND child_id = ?
	`, parent, child).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (t *storeTx) InsertEdge(ctx context.Context, parent, child int64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO adjacent_objects (parent_id, child_id) VALUES (?, ?)
	`, parent, child)
	return err
}

func (t *storeTx) DeleteEdge(ctx context.Context, parent, child int64) error {
	_, err := t.tx.ExecContext(ctx, `
		DELETE FROM adjacent_objects WHERE parent_id = ? AND child_id = ?
	`, parent, child)
	return err
}

func (t *storeTx) AdjustCounts(ctx context.Context, id int64, childDelta, refDelta int) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE object_node
		SET child_count = child_count + ?, reference_count = reference_count + ?
		WHERE object_id = ?
	`, childDelta, refDelta, id)
	return err
}

func (t *storeTx) DeleteNode(ctx context.Context, id int64) error {
	var path string
	err := t.tx.QueryRowContext(ctx, `SELECT path FROM sources WHERE object_id = ?`, id).Scan(&path)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	default:
		t.pending = append(t.pending, cacheOp{path: path, remove: true})
	}

	_, err = t.tx.ExecContext(ctx, `DELETE FROM object_node WHERE object_id = ?`, id)
	return err
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryIDs(ctx context.Context, q queryer, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.ObjectNode, error) {
	var n domain.ObjectNode
	var typ int64
	var title sql.NullString
	err := row.Scan(&n.ID, &typ, &title, &n.ChildCount, &n.ReferenceCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.Type = domain.ObjectType(typ)
	n.Title = title.String
	return &n, nil
}
