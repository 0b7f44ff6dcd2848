package sqlite

import (
	"context"
	"fmt"
	"testing"

	"mediagraph/internal/domain"
)

// BenchmarkRegisterAndCollect links songs under a shared album, then
// deletes them so the album is collected by the last removal.
func BenchmarkRegisterAndCollect(b *testing.B) {
	s := NewStore()
	if err := s.Open(b.TempDir()); err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	if err := s.Initialize(ctx); err != nil {
		b.Fatalf("failed to initialize store: %v", err)
	}

	const songs = 50
	b.ResetTimer()
	for i := 0; b.Loop(); i++ {
		tx, err := s.BeginTx(ctx)
		if err != nil {
			b.Fatalf("begin: %v", err)
		}
		album, err := tx.InsertObject(ctx, "Album", domain.GroupType(domain.TypeAlbum))
		if err != nil {
			b.Fatalf("insert album: %v", err)
		}
		if err := tx.Link(ctx, domain.RootMusic, album); err != nil {
			b.Fatalf("link album: %v", err)
		}
		ids := make([]int64, 0, songs)
		for j := 0; j < songs; j++ {
			id, err := tx.InsertObject(ctx, "song", domain.TypeFile|domain.TypeMusic)
			if err != nil {
				b.Fatalf("insert song: %v", err)
			}
			if err := tx.Link(ctx, domain.RootMusic, id); err != nil {
				b.Fatalf("link song: %v", err)
			}
			if err := tx.Link(ctx, album, id); err != nil {
				b.Fatalf("link song: %v", err)
			}
			path := fmt.Sprintf("/bench/%d/%d.mp3", i, j)
			if err := tx.BindSource(ctx, &domain.SourceRecord{ObjectID: id, Path: path}); err != nil {
				b.Fatalf("bind: %v", err)
			}
			ids = append(ids, id)
		}
		for _, id := range ids {
			if _, err := tx.Delete(ctx, id); err != nil {
				b.Fatalf("delete: %v", err)
			}
		}
		if err := tx.Commit(); err != nil {
			b.Fatalf("commit: %v", err)
		}
	}
}
