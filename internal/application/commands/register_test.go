package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediagraph/internal/adapters/sqlite"
	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// --- fakes ---

type fakeStream struct {
	codec   string
	bitrate int
}

type fakeMedia struct {
	tags     map[string]string
	bitrate  int
	duration int64
	width    int
	height   int
	video    *fakeStream
	audio    *fakeStream
}

type fakeDecoder struct {
	files  map[string]*fakeMedia
	cur    *fakeMedia
	stream *fakeStream
}

func (d *fakeDecoder) Open(path string) error {
	m, ok := d.files[path]
	if !ok {
		return fmt.Errorf("cannot decode %s", path)
	}
	d.cur, d.stream = m, nil
	return nil
}

func (d *fakeDecoder) Close() error {
	d.cur, d.stream = nil, nil
	return nil
}

func (d *fakeDecoder) MetadataEntry(key, def string) string {
	if v, ok := d.cur.tags[key]; ok && v != "" {
		return v
	}
	return def
}

func (d *fakeDecoder) Bitrate() int      { return d.cur.bitrate }
func (d *fakeDecoder) Duration() int64   { return d.cur.duration }
func (d *fakeDecoder) Width() int        { return d.cur.width }
func (d *fakeDecoder) Height() int       { return d.cur.height }
func (d *fakeDecoder) CodecName() string { return d.stream.codec }
func (d *fakeDecoder) CodecBitrate() int { return d.stream.bitrate }

func (d *fakeDecoder) LoadCodec(kind domain.StreamKind) bool {
	if kind == domain.StreamVideo {
		d.stream = d.cur.video
	} else {
		d.stream = d.cur.audio
	}
	return d.stream != nil
}

type fakeDescriptors struct {
	files  map[string]map[string]string
	loaded map[string]string
}

func (f *fakeDescriptors) Load(path string) error {
	v, ok := f.files[path]
	if !ok {
		return fmt.Errorf("no descriptor at %s", path)
	}
	f.loaded = v
	return nil
}

func (f *fakeDescriptors) Value(key, def string) string {
	if v, ok := f.loaded[key]; ok {
		return v
	}
	return def
}

type fakeFiles map[string]*domain.FileAttrs

func (f fakeFiles) Stat(path string) (*domain.FileAttrs, error) {
	if a, ok := f[path]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("stat %s: no such file", path)
}

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *sqlite.Store
	decoder *fakeDecoder
	descs   *fakeDescriptors
	files   fakeFiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := sqlite.NewStore()
	if err := s.Open(t.TempDir()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &fixture{
		store:   s,
		decoder: &fakeDecoder{files: make(map[string]*fakeMedia)},
		descs:   &fakeDescriptors{files: make(map[string]map[string]string)},
		files:   make(fakeFiles),
	}
}

func (f *fixture) extractors() Extractors {
	return Extractors{Decoder: f.decoder, Descriptors: f.descs, Files: f.files}
}

func (f *fixture) addSong(path, title, album, artist string) {
	f.files[path] = &domain.FileAttrs{Size: 4096, Created: testTime, Modified: testTime}
	f.decoder.files[path] = &fakeMedia{
		tags:     map[string]string{"title": title, "album": album, "artist": artist, "track": "2/9"},
		bitrate:  320000,
		duration: 200000,
		audio:    &fakeStream{codec: "mp3", bitrate: 320000},
	}
}

func (f *fixture) register(t *testing.T, c domain.Category, path string) *RegisterResult {
	t.Helper()
	res, err := NewRegisterCommand(f.store, f.extractors(), c, path).Execute(context.Background())
	if err != nil {
		t.Fatalf("register %s: %v", path, err)
	}
	return res
}

func (f *fixture) stats(t *testing.T) domain.StoreStats {
	t.Helper()
	s, err := f.store.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	s.NextID = 0
	return *s
}

// --- tests ---

func TestRegisterCommand_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		path     string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid music path",
			category: domain.CategoryMusic,
			path:     "/music/a.mp3",
		},
		{
			name:     "empty path",
			category: domain.CategoryMusic,
			path:     "  ",
			wantErr:  true,
			errMsg:   "path is required",
		},
		{
			name:     "unknown category",
			category: domain.CategoryUnknown,
			path:     "/x/a.txt",
			wantErr:  true,
			errMsg:   "invalid category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &RegisterCommand{Category: tt.category, Path: tt.path}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRegister_MusicRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "")

	res := f.register(t, domain.CategoryMusic, "/music/a.mp3")
	if res.ObjectID != 256 {
		t.Errorf("first object id = %d, want 256", res.ObjectID)
	}
	if res.Title != "Song A" {
		t.Errorf("title = %q, want Song A", res.Title)
	}
	if len(res.Groups) != 1 {
		t.Fatalf("groups = %v, want one album", res.Groups)
	}
	album := res.Groups[0]

	lookup, err := NewLookupPathCommand(f.store, "/music/a.mp3").Execute(ctx)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !lookup.Found || lookup.ID != res.ObjectID {
		t.Fatalf("lookup = %+v, want id %d", lookup, res.ObjectID)
	}

	rec, err := f.store.Record(ctx, res.ObjectID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	music := rec.(*domain.MusicRecord)
	if music.AlbumID != album || music.Album != "Album X" {
		t.Errorf("album reference = %d %q", music.AlbumID, music.Album)
	}
	if music.ArtistID != 0 || music.GenreID != 0 {
		t.Errorf("absent groupings should be null, got artist %d genre %d", music.ArtistID, music.GenreID)
	}
	if music.TrackNumber != 2 || music.FileFormat != domain.FormatMP3 || music.AudioCodec != domain.CodecMP3 {
		t.Errorf("unexpected music row: %+v", music)
	}

	del, err := NewDeleteCommand(f.store, fmt.Sprint(res.ObjectID)).Execute(ctx)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(del.Removed) != 2 {
		t.Errorf("removed = %v, want song and album", del.Removed)
	}

	if src, _ := f.store.Source(ctx, res.ObjectID); src != nil {
		t.Error("source record survived delete")
	}
	if rec, _ := f.store.Record(ctx, res.ObjectID); rec != nil {
		t.Error("music row survived delete")
	}
	if node, _ := f.store.Object(ctx, album); node != nil {
		t.Error("album with no songs left was not collected")
	}
	if id, _ := f.store.PathID(ctx, "/music/a.mp3"); id != -1 {
		t.Errorf("PathID after delete = %d, want -1", id)
	}
}

func TestRegister_GroupsAreShared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "A", "Album X", "Band")
	f.addSong("/music/b.mp3", "B", "Album X", "Band")

	a := f.register(t, domain.CategoryMusic, "/music/a.mp3")
	b := f.register(t, domain.CategoryMusic, "/music/b.mp3")

	if fmt.Sprint(a.Groups) != fmt.Sprint(b.Groups) {
		t.Fatalf("groups differ: %v vs %v", a.Groups, b.Groups)
	}

	children, err := NewListChildrenCommand(f.store, domain.RootMusic).Execute(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// album, artist and two songs
	if len(children) != 4 {
		t.Errorf("music root children = %d, want 4", len(children))
	}

	if _, err := NewDeleteCommand(f.store, "/music/a.mp3").Execute(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, g := range b.Groups {
		node, err := f.store.Object(ctx, g)
		if err != nil || node == nil {
			t.Fatalf("group %d collected while song b still uses it", g)
		}
		if node.ChildCount != 1 {
			t.Errorf("group %d child_count = %d, want 1", g, node.ChildCount)
		}
	}
}

func TestRegister_SamePathTwiceKeepsOneSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "")

	first := f.register(t, domain.CategoryMusic, "/music/a.mp3")
	f.decoder.files["/music/a.mp3"].tags["title"] = "Song A (remaster)"
	second := f.register(t, domain.CategoryMusic, "/music/a.mp3")

	if len(second.Replaced) == 0 || second.Replaced[0] != first.ObjectID {
		t.Errorf("replaced = %v, want %d first", second.Replaced, first.ObjectID)
	}
	if st := f.stats(t); st.Sources != 1 || st.Music != 1 {
		t.Errorf("sources = %d music = %d, want 1 and 1", st.Sources, st.Music)
	}
	id, err := f.store.PathID(ctx, "/music/a.mp3")
	if err != nil || id != second.ObjectID {
		t.Errorf("PathID = %d, %v; want %d", id, err, second.ObjectID)
	}
	node, _ := f.store.Object(ctx, second.ObjectID)
	if node == nil || node.Title != "Song A (remaster)" {
		t.Errorf("node = %+v", node)
	}
}

func TestRegister_FailedExtractionWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.files["/music/corrupt.mp3"] = &domain.FileAttrs{Size: 1}

	before := f.stats(t)
	_, err := NewRegisterMusicCommand(f.store, f.extractors(), "/music/corrupt.mp3").Execute(ctx)
	if !errors.Is(err, application.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	var regErr *application.RegisterError
	if !errors.As(err, &regErr) || regErr.Stage != application.StageExtract {
		t.Errorf("expected extract stage, got %v", err)
	}
	if after := f.stats(t); after != before {
		t.Errorf("stats changed: %+v -> %+v", before, after)
	}
}

func TestRegister_VideoWithoutAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := "/videos/clip.mp4"
	f.files[path] = &domain.FileAttrs{Size: 1 << 20, Created: testTime, Modified: testTime}
	f.decoder.files[path] = &fakeMedia{
		duration: 120000,
		width:    1280,
		height:   720,
		video:    &fakeStream{codec: "h264", bitrate: 1500000},
	}

	res := f.register(t, domain.CategoryVideo, path)
	if res.ObjectID != 256 {
		t.Errorf("first object id = %d, want 256", res.ObjectID)
	}
	if res.Title != "clip" {
		t.Errorf("title = %q, want base name", res.Title)
	}

	rec, err := f.store.Record(ctx, res.ObjectID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	v := rec.(*domain.VideoRecord)
	if v.AudioCodec != 0 || v.AudioBitrate != 0 {
		t.Errorf("audio = %d/%d, want 0/0", v.AudioCodec, v.AudioBitrate)
	}
	if v.Duration != 120000 || v.Width != 1280 || v.VideoCodec != domain.CodecAVC || v.VideoBitrate != 1500000 {
		t.Errorf("unexpected video row: %+v", v)
	}

	parents, _ := f.store.Parents(ctx, res.ObjectID)
	if len(parents) != 1 || parents[0].ID != domain.RootVideos {
		t.Errorf("parents = %+v, want videos root", parents)
	}
}

func TestRegister_VideoWithAudio(t *testing.T) {
	f := newFixture(t)
	path := "/videos/talk.mp4"
	f.files[path] = &domain.FileAttrs{Size: 10}
	f.decoder.files[path] = &fakeMedia{
		tags:  map[string]string{"title": "Talk", "comment": "keynote", "copyright": "CC-BY"},
		video: &fakeStream{codec: "mpeg4", bitrate: 900000},
		audio: &fakeStream{codec: "aac", bitrate: 128000},
	}

	res := f.register(t, domain.CategoryVideo, path)
	rec, _ := f.store.Record(context.Background(), res.ObjectID)
	v := rec.(*domain.VideoRecord)
	if v.AudioCodec != domain.CodecAAC || v.AudioBitrate != 128000 {
		t.Errorf("audio = %d/%d", v.AudioCodec, v.AudioBitrate)
	}
	if v.VideoCodec != domain.CodecMPEG4 || v.Explanation != "keynote" || v.Copyright != "CC-BY" {
		t.Errorf("unexpected video row: %+v", v)
	}
}

func TestRegister_Photo(t *testing.T) {
	f := newFixture(t)
	path := "/photos/beach.png"
	f.files[path] = &domain.FileAttrs{Size: 2048, Created: testTime, Modified: testTime}
	f.decoder.files[path] = &fakeMedia{width: 640, height: 480, video: &fakeStream{codec: "png"}}

	res := f.register(t, domain.CategoryPhoto, path)
	rec, _ := f.store.Record(context.Background(), res.ObjectID)
	p := rec.(*domain.PhotoRecord)
	if p.Width != 640 || p.Height != 480 || p.FileFormat != domain.FormatPNG || p.PhotoCodec != domain.CodecPNG {
		t.Errorf("unexpected photo row: %+v", p)
	}
	if !p.DateCreated.Equal(testTime) {
		t.Errorf("date_created = %v, want %v", p.DateCreated, testTime)
	}
}

func TestRegister_SaveData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := "/saves/ULUS10041"
	f.files[dir] = &domain.FileAttrs{IsDir: true, Modified: testTime}
	f.files[dir+"/PARAM.SFO"] = &domain.FileAttrs{Size: 512, Modified: testTime}
	f.descs.files[dir+"/PARAM.SFO"] = map[string]string{
		"TITLE":           "Adventure",
		"SAVEDATA_DETAIL": "Chapter 3",
		"SAVEDATA_TITLE":  "Slot 1",
	}

	res := f.register(t, domain.CategorySaveData, dir)
	if res.Title != "Adventure" {
		t.Errorf("title = %q", res.Title)
	}
	rec, _ := f.store.Record(ctx, res.ObjectID)
	sd := rec.(*domain.SaveDataRecord)
	if sd.Detail != "Chapter 3" || sd.Title != "Slot 1" || sd.DirName != "ULUS10041" {
		t.Errorf("unexpected savedata row: %+v", sd)
	}
	if !sd.DateUpdated.Equal(testTime) {
		t.Errorf("date_updated = %v", sd.DateUpdated)
	}
	node, _ := f.store.Object(ctx, res.ObjectID)
	if !node.Type.Has(domain.TypeFolder | domain.TypeSaveData) {
		t.Errorf("type = %v", node.Type)
	}
}

func TestRegister_SaveDataWithoutDescriptorFails(t *testing.T) {
	f := newFixture(t)
	dir := "/saves/EMPTY"
	f.files[dir] = &domain.FileAttrs{IsDir: true}

	before := f.stats(t)
	_, err := NewRegisterSaveDataCommand(f.store, f.extractors(), dir).Execute(context.Background())
	if !errors.Is(err, application.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if after := f.stats(t); after != before {
		t.Errorf("a node was created: %+v -> %+v", before, after)
	}
}

// failingStore makes PutRecord fail inside an otherwise real transaction
type failingStore struct {
	ports.ObjectStore
}

type failingTx struct {
	ports.StoreTx
}

func (s failingStore) BeginTx(ctx context.Context) (ports.StoreTx, error) {
	tx, err := s.ObjectStore.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{tx}, nil
}

func (failingTx) PutRecord(context.Context, domain.Record) error {
	return errors.New("disk full")
}

func TestRegister_WriteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "Band")

	before := f.stats(t)
	_, err := NewRegisterMusicCommand(failingStore{f.store}, f.extractors(), "/music/a.mp3").Execute(ctx)

	var regErr *application.RegisterError
	if !errors.As(err, &regErr) || regErr.Stage != application.StageWrite {
		t.Fatalf("expected write stage failure, got %v", err)
	}
	if errors.Is(err, application.ErrExtraction) {
		t.Error("write failure must not look like an extraction failure")
	}
	if after := f.stats(t); after != before {
		t.Errorf("partial state left behind: %+v -> %+v", before, after)
	}
	if id, _ := f.store.PathID(ctx, "/music/a.mp3"); id != -1 {
		t.Errorf("path cache holds rolled back id %d", id)
	}

	// the store is still usable afterwards
	f.register(t, domain.CategoryMusic, "/music/a.mp3")
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

func TestDelete_RefusesCategoryRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "")
	f.register(t, domain.CategoryMusic, "/music/a.mp3")

	_, err := NewDeleteCommand(f.store, "1").Execute(ctx)
	var verr *application.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	root, err := f.store.Object(ctx, domain.RootMusic)
	if err != nil || root == nil || root.ChildCount != 2 {
		t.Fatalf("music root should be untouched, got %+v (%v)", root, err)
	}
}

func TestRegister_RestoresMissingRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "")
	f.addSong("/music/b.mp3", "Song B", "Album Y", "")
	f.register(t, domain.CategoryMusic, "/music/a.mp3")

	// remove the root below the command layer
	tx, err := f.store.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	removed, err := tx.Delete(ctx, domain.RootMusic)
	if err != nil {
		t.Fatalf("delete root: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if len(removed) != 3 {
		t.Fatalf("removed = %v, want the root, the album and the song", removed)
	}

	res := f.register(t, domain.CategoryMusic, "/music/b.mp3")

	root, err := f.store.Object(ctx, domain.RootMusic)
	if err != nil || root == nil {
		t.Fatalf("music root not restored: %v", err)
	}
	if !root.Type.IsRoot() || root.Title != "Music" {
		t.Errorf("restored root = %+v", root)
	}
	children, err := f.store.Children(ctx, domain.RootMusic)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, c := range children {
		found = found || c.ID == res.ObjectID
	}
	if !found || len(children) != 2 {
		t.Errorf("root children = %+v, want the song and its album", children)
	}
	if res.ObjectID < domain.ReservedIDs {
		t.Errorf("object id %d allocated in the reserved range", res.ObjectID)
	}
}

func TestRegister_TrackIDIsAlbumArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSong("/music/a.mp3", "Song A", "Album X", "Singer")
	f.decoder.files["/music/a.mp3"].tags["albumartist"] = "Various"

	res := f.register(t, domain.CategoryMusic, "/music/a.mp3")

	rec, err := f.store.Record(ctx, res.ObjectID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	music := rec.(*domain.MusicRecord)

	track, err := f.store.Object(ctx, music.TrackID)
	if err != nil || track == nil {
		t.Fatalf("track_id %d does not name a node: %v", music.TrackID, err)
	}
	if track.Title != "Various" || !track.Type.Has(domain.TypeAlbumArtist) {
		t.Errorf("track_id node = %+v, want the album artist grouping", track)
	}
	artist, _ := f.store.Object(ctx, music.ArtistID)
	if artist == nil || artist.Title != "Singer" || music.ArtistID == music.TrackID {
		t.Errorf("artist_id node = %+v", artist)
	}
}
