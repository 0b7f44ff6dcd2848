package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediagraph/internal/adapters/filesystem"
	"mediagraph/internal/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

func TestScanCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := t.TempDir()

	a := filepath.Join(root, "music", "a.mp3")
	b := filepath.Join(root, "music", "b.mp3")
	broken := filepath.Join(root, "music", "broken.mp3")
	for _, p := range []string{a, b, broken, filepath.Join(root, "readme.txt")} {
		writeFile(t, p)
	}
	f.addSong(a, "A", "Album", "")
	f.addSong(b, "B", "Album", "")
	// broken has attributes but no decodable stream
	f.files[broken] = &domain.FileAttrs{Size: 1}

	walker := filesystem.NewWalker(nil)

	res, err := NewScanCommand(f.store, f.extractors(), walker, root).Execute(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Found != 3 || res.Registered != 2 || res.Failed != 1 {
		t.Errorf("first scan = %+v", res)
	}
	if len(res.FailedPaths) != 1 || res.FailedPaths[0] != broken {
		t.Errorf("failed paths = %v", res.FailedPaths)
	}

	res, err = NewScanCommand(f.store, f.extractors(), walker, root).Execute(ctx)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if res.Unchanged != 2 || res.Registered != 0 {
		t.Errorf("rescan = %+v", res)
	}

	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	prune := NewScanCommand(f.store, f.extractors(), walker, root)
	prune.Prune = true
	res, err = prune.Execute(ctx)
	if err != nil {
		t.Fatalf("prune scan: %v", err)
	}
	if res.Pruned != 1 {
		t.Errorf("pruned = %d, want 1", res.Pruned)
	}
	if id, _ := f.store.PathID(ctx, b); id != -1 {
		t.Errorf("removed file still registered as %d", id)
	}
	if id, _ := f.store.PathID(ctx, a); id < 0 {
		t.Error("surviving file was pruned")
	}
}

func TestScanCommand_DryRun(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clip.mp4"))

	cmd := NewScanCommand(f.store, f.extractors(), filesystem.NewWalker(nil), root)
	cmd.DryRun = true
	before := f.stats(t)

	res, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Registered != 1 {
		t.Errorf("registered = %d, want 1", res.Registered)
	}
	if after := f.stats(t); after != before {
		t.Errorf("dry run wrote to the store: %+v -> %+v", before, after)
	}
}

func TestScanCommand_Validate(t *testing.T) {
	cmd := NewScanCommand(nil, Extractors{}, nil, " ")
	if err := cmd.Validate(); err == nil || !contains(err.Error(), "root") {
		t.Errorf("expected root required error, got %v", err)
	}
}
