package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/adapters/sqlite"
	"mediagraph/internal/domain"
)

type library struct {
	store *sqlite.Store
	song  int64
	album int64
}

func setupLibrary(t *testing.T) *library {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	song, _ := tx.InsertObject(ctx, "Song A", domain.TypeFile|domain.TypeMusic)
	album, _ := tx.InsertObject(ctx, "Album X", domain.GroupType(domain.TypeAlbum))
	for _, e := range [][2]int64{{domain.RootMusic, song}, {domain.RootMusic, album}, {album, song}} {
		if err := tx.Link(ctx, e[0], e[1]); err != nil {
			t.Fatalf("link: %v", err)
		}
	}
	if err := tx.BindSource(ctx, &domain.SourceRecord{ObjectID: song, Path: "/music/a.mp3"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return &library{store: store, song: song, album: album}
}

// drive runs cmd and feeds the resulting messages back into the browser
// until it stops producing commands. It returns the last message.
func drive(m *BrowserModel, cmd tea.Cmd) tea.Msg {
	var last tea.Msg
	for cmd != nil {
		last = cmd()
		_, cmd = m.Update(last)
	}
	return last
}

func press(m *BrowserModel, k string) tea.Msg {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return drive(m, cmd)
}

func TestBrowser_StartsAtRoots(t *testing.T) {
	lib := setupLibrary(t)
	m := NewBrowserModel(lib.store)
	drive(m, m.Init())

	cur := m.current()
	if cur == nil || len(cur.nodes) != 4 {
		t.Fatalf("expected the 4 roots, got %+v", cur)
	}
	if cur.nodes[0].ID != domain.RootMusic || cur.nodes[0].ChildCount != 2 {
		t.Errorf("unexpected first root %+v", cur.nodes[0])
	}
	if !contains(m.View(), "Saved Data") {
		t.Error("expected roots in the view")
	}
}

func TestBrowser_DescendCopyAndBack(t *testing.T) {
	lib := setupLibrary(t)
	m := NewBrowserModel(lib.store)
	drive(m, m.Init())

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	press(m, "enter")
	cur := m.current()
	if len(m.stack) != 2 || len(cur.nodes) != 2 {
		t.Fatalf("expected music children, got %d levels", len(m.stack))
	}
	if m.Breadcrumb() != "Library / Music" {
		t.Errorf("breadcrumb = %q", m.Breadcrumb())
	}

	// ordered by title: Album X, Song A
	press(m, "down")
	press(m, "y")
	if copied != "/music/a.mp3" {
		t.Errorf("copied %q, want /music/a.mp3", copied)
	}
	if !contains(m.Message, "Copied") || m.MessageErr {
		t.Errorf("message = %q", m.Message)
	}

	press(m, "up")
	press(m, "y")
	if !m.MessageErr || !contains(m.Message, "has no source") {
		t.Errorf("expected no-source error, got %q", m.Message)
	}

	msg := press(m, "o")
	if _, ok := msg.(errMsg); !ok {
		t.Errorf("expected an error opening a folder, got %T", msg)
	}

	press(m, "backspace")
	if len(m.stack) != 1 {
		t.Errorf("expected to be back at the roots, got %d levels", len(m.stack))
	}
}

func TestBrowser_OpenAndDeleteRequests(t *testing.T) {
	lib := setupLibrary(t)
	m := NewBrowserModel(lib.store)
	drive(m, m.Init())

	press(m, "d")
	if !m.MessageErr || !contains(m.Message, "roots cannot be deleted") {
		t.Errorf("expected root delete refusal, got %q", m.Message)
	}

	press(m, "enter")
	press(m, "down")

	msg := press(m, "o")
	open, ok := msg.(OpenFileMsg)
	if !ok || open.Path != "/music/a.mp3" {
		t.Errorf("expected OpenFileMsg for the song, got %#v", msg)
	}

	msg = press(m, "d")
	del, ok := msg.(SwitchToDeleteMsg)
	if !ok || del.Node.ID != lib.song {
		t.Errorf("expected delete request for %d, got %#v", lib.song, msg)
	}
}

func TestBrowser_CollectedFolderFallsBack(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()
	m := NewBrowserModel(lib.store)
	drive(m, m.Init())

	press(m, "enter") // music
	press(m, "enter") // album
	if len(m.stack) != 3 || m.current().parent.ID != lib.album {
		t.Fatalf("expected to be inside the album")
	}

	// deleting the only song collects the album
	tx, err := lib.store.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Delete(ctx, lib.song); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	drive(m, m.Refresh())
	if len(m.stack) != 2 {
		t.Fatalf("expected fallback to the music list, got %d levels", len(m.stack))
	}
	if n := len(m.current().nodes); n != 0 {
		t.Errorf("music root should be empty, has %d children", n)
	}
	if !contains(m.View(), "(empty)") {
		t.Error("expected empty marker in view")
	}
}

func TestNodeKind(t *testing.T) {
	tests := []struct {
		typ  domain.ObjectType
		want string
	}{
		{domain.TypeRoot | domain.TypeFolder | domain.TypeMusic, "Root"},
		{domain.GroupType(domain.TypeAlbum), "Album"},
		{domain.GroupType(domain.TypeAlbumArtist), "Album artist"},
		{domain.TypeFile | domain.TypeMusic, "Song"},
		{domain.TypeFolder | domain.TypeSaveData, "Save data"},
		{domain.TypeFile | domain.TypeVideo, "Video"},
	}
	for _, tt := range tests {
		if got := NodeKind(tt.typ); got != tt.want {
			t.Errorf("NodeKind(%v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		findSubstring(s, substr))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestDeleteModel_ShowsImpactAndDeletes(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	song, err := lib.store.Object(ctx, lib.song)
	if err != nil || song == nil {
		t.Fatalf("object: %v", err)
	}

	m := NewDeleteModel(lib.store)
	m.SetTarget(*song)
	_, cmd := m.Update(m.Init()())
	if cmd != nil {
		t.Fatal("impact load should not chain commands")
	}

	if m.Impact.Source != "/music/a.mp3" {
		t.Errorf("source = %q", m.Impact.Source)
	}
	if len(m.Impact.Collected) != 1 || m.Impact.Collected[0].ID != lib.album {
		t.Errorf("expected the album to be collected, got %+v", m.Impact.Collected)
	}
	if view := m.View(); !contains(view, "Also removes Album Album X") || !contains(view, "filed under") {
		t.Errorf("view misses the impact:\n%s", view)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if _, ok := cmd().(DeleteSuccessMsg); !ok {
		t.Fatal("expected a successful delete")
	}
	if n, _ := lib.store.Object(ctx, lib.album); n != nil {
		t.Error("album should be collected with its only song")
	}
}

func TestDeleteModel_CancelAndStaleImpact(t *testing.T) {
	lib := setupLibrary(t)
	m := NewDeleteModel(lib.store)
	m.SetTarget(domain.ObjectNode{ID: lib.album, Title: "Album X", Type: domain.GroupType(domain.TypeAlbum)})

	m.Update(impactLoadedMsg{id: lib.song, impact: Impact{Source: "/elsewhere"}})
	if m.Impact.Source != "" {
		t.Error("impact for another target was applied")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Error("esc should return to the browser")
	}
}
