package collection

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"ytmanifest/youtube"
)

// fakeResolver implements Resolver for tests.
type fakeResolver struct {
	videos      map[string]youtube.Video
	playlist    []youtube.Video
	playlistErr error
	keyOK       bool
	lastKey     string
}

func (f *fakeResolver) VideoInfo(ctx context.Context, rawURL string) (youtube.Video, error) {
	v, ok := f.videos[rawURL]
	if !ok {
		return youtube.Video{}, youtube.ErrVideoNotFound
	}
	return v, nil
}

func (f *fakeResolver) PlaylistVideos(ctx context.Context, idOrURL string) ([]youtube.Video, error) {
	return f.playlist, f.playlistErr
}

func (f *fakeResolver) CheckAPIKey(ctx context.Context) bool { return f.keyOK }

func (f *fakeResolver) SetAPIKey(apiKey string) { f.lastKey = apiKey }

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func TestAddLinkCatalogURL(t *testing.T) {
	ctx := context.Background()
	resolver := &fakeResolver{videos: map[string]youtube.Video{
		watchURL("abc12345678"): {
			ID:           "abc12345678",
			Title:        "Resolved Title",
			URL:          watchURL("abc12345678"),
			ThumbnailURL: "https://img/1.jpg",
		},
	}}
	s := NewStore(resolver)

	if !s.AddLink(ctx, watchURL("abc12345678"), "") {
		t.Fatal("AddLink = false, want true")
	}

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ID != "abc12345678" || e.Title != "Resolved Title" {
		t.Errorf("entry = %+v", e)
	}
	// No explicit name supplied, so the catalog title becomes the custom name.
	if e.DisplayName() != "Resolved Title" {
		t.Errorf("DisplayName = %q, want Resolved Title", e.DisplayName())
	}
}

func TestAddLinkCustomName(t *testing.T) {
	ctx := context.Background()
	resolver := &fakeResolver{videos: map[string]youtube.Video{
		watchURL("abc12345678"): {ID: "abc12345678", Title: "Resolved Title", URL: watchURL("abc12345678")},
	}}
	s := NewStore(resolver)

	s.AddLink(ctx, watchURL("abc12345678"), "My Name")
	if got := s.Entries()[0].DisplayName(); got != "My Name" {
		t.Errorf("DisplayName = %q, want My Name", got)
	}
}

func TestAddLinkUnresolvable(t *testing.T) {
	s := NewStore(&fakeResolver{})
	if s.AddLink(context.Background(), watchURL("abc12345678"), "") {
		t.Error("AddLink = true for unresolvable video, want false")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestAddLinkManualEntry(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&fakeResolver{})

	if !s.AddLink(ctx, "https://example.com/video.mp4", "") {
		t.Fatal("AddLink = false for generic URL, want true")
	}
	if !s.AddLink(ctx, "https://example.com/other.mp4", "") {
		t.Fatal("AddLink = false for second generic URL, want true")
	}

	entries := s.Entries()
	if !strings.HasPrefix(entries[0].ID, "manual-") {
		t.Errorf("ID = %q, want manual- prefix", entries[0].ID)
	}
	if entries[0].Title != "Video 1" || entries[1].Title != "Video 2" {
		t.Errorf("placeholder titles = %q, %q", entries[0].Title, entries[1].Title)
	}
	if entries[0].URL != "https://example.com/video.mp4" {
		t.Errorf("URL = %q, want raw input", entries[0].URL)
	}
}

func TestAddLinkRejectsGarbage(t *testing.T) {
	s := NewStore(&fakeResolver{})
	for _, input := range []string{"", "not a link", "ftp://example.com/f"} {
		if s.AddLink(context.Background(), input, "") {
			t.Errorf("AddLink(%q) = true, want false", input)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func playlistOf(titles ...string) []youtube.Video {
	videos := make([]youtube.Video, 0, len(titles))
	for i, title := range titles {
		id := strings.Repeat(string(rune('a'+i)), 11)
		videos = append(videos, youtube.Video{ID: id, Title: title, URL: watchURL(id)})
	}
	return videos
}

func TestLoadPlaylistAppendsInOrder(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("First", "Second", "Third")}
	s := NewStore(resolver)

	if n := s.LoadPlaylist(context.Background(), "PLabcdefghij123456"); n != 3 {
		t.Fatalf("LoadPlaylist = %d, want 3", n)
	}

	var titles []string
	for _, e := range s.Entries() {
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(titles, []string{"First", "Second", "Third"}) {
		t.Errorf("titles = %v", titles)
	}
}

func TestLoadPlaylistCustomNamesHeldBack(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("First", "Second")}
	s := NewStore(resolver)
	s.SetUseCustomNames(true)

	if n := s.LoadPlaylist(context.Background(), "PLabcdefghij123456"); n != 2 {
		t.Fatalf("LoadPlaylist = %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0 (held as pending)", s.Len())
	}

	pending := s.LastPending()
	if pending == nil {
		t.Fatal("LastPending = nil, want held playlist")
	}
	if len(pending.Entries) != 2 {
		t.Fatalf("pending entries = %d, want 2", len(pending.Entries))
	}

	added := s.CommitPending(pending.Token, map[int]string{1: "Renamed"})
	if added != 2 {
		t.Fatalf("CommitPending = %d, want 2", added)
	}
	entries := s.Entries()
	if entries[0].DisplayName() != "First" {
		t.Errorf("entries[0] name = %q, want First", entries[0].DisplayName())
	}
	if entries[1].DisplayName() != "Renamed" {
		t.Errorf("entries[1] name = %q, want Renamed", entries[1].DisplayName())
	}

	// Token is consumed.
	if s.CommitPending(pending.Token, nil) != 0 {
		t.Error("second CommitPending != 0, token should be consumed")
	}
}

func TestLoadPlaylistError(t *testing.T) {
	resolver := &fakeResolver{playlistErr: errors.New("boom")}
	s := NewStore(resolver)
	if n := s.LoadPlaylist(context.Background(), "PLabcdefghij123456"); n != 0 {
		t.Fatalf("LoadPlaylist = %d, want 0", n)
	}
}

func TestLoadPlaylistPartialStillCounts(t *testing.T) {
	resolver := &fakeResolver{
		playlist:    playlistOf("Only"),
		playlistErr: errors.New("pagination aborted"),
	}
	s := NewStore(resolver)
	if n := s.LoadPlaylist(context.Background(), "PLabcdefghij123456"); n != 1 {
		t.Fatalf("LoadPlaylist = %d, want 1 (partial kept)", n)
	}
}

func TestCommitPendingUnknownToken(t *testing.T) {
	s := NewStore(&fakeResolver{})
	if s.CommitPending("no-such-token", nil) != 0 {
		t.Error("CommitPending with unknown token != 0")
	}
}

func TestReorderPreservesRelativeOrder(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A", "B", "C", "D")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")

	s.Reorder(0, 2) // A moves between C and D

	var titles []string
	for _, e := range s.Entries() {
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(titles, []string{"B", "C", "A", "D"}) {
		t.Errorf("titles after Reorder(0,2) = %v", titles)
	}

	s.Reorder(2, 0) // and back

	titles = titles[:0]
	for _, e := range s.Entries() {
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(titles, []string{"A", "B", "C", "D"}) {
		t.Errorf("titles after Reorder(2,0) = %v", titles)
	}
}

func TestReorderOutOfBounds(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A", "B")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")

	before := s.Entries()
	s.Reorder(-1, 0)
	s.Reorder(0, 2)
	s.Reorder(5, 0)
	if !reflect.DeepEqual(s.Entries(), before) {
		t.Error("out-of-bounds Reorder mutated the collection")
	}
}

func TestRemoveAt(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A", "B", "C")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")

	s.RemoveAt(1)
	var titles []string
	for _, e := range s.Entries() {
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(titles, []string{"A", "C"}) {
		t.Errorf("titles = %v, want [A C]", titles)
	}

	s.RemoveAt(10) // no-op
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestRemoveInvalid(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("Good")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")
	s.AddLink(context.Background(), "https://example.com/fine.mp4", "")

	// Corrupt one entry's URL directly through the commit path.
	pending, _ := s.ResolvePlaylist(context.Background(), "PLabcdefghij123456")
	pending.Entries[0].URL = "not a url at all"
	s.CommitPending(pending.Token, nil)

	if n := s.RemoveInvalid(); n != 1 {
		t.Fatalf("RemoveInvalid = %d, want 1", n)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestMutatorsBlockedDuringExport(t *testing.T) {
	ctx := context.Background()
	resolver := &fakeResolver{playlist: playlistOf("A", "B")}
	s := NewStore(resolver)
	s.LoadPlaylist(ctx, "PLabcdefghij123456")

	if !s.BeginExport() {
		t.Fatal("BeginExport = false")
	}
	before := s.Entries()

	if s.AddLink(ctx, "https://example.com/x.mp4", "") {
		t.Error("AddLink succeeded during export")
	}
	if s.LoadPlaylist(ctx, "PLabcdefghij123456") != 0 {
		t.Error("LoadPlaylist succeeded during export")
	}
	s.RemoveAt(0)
	s.Reorder(0, 1)
	s.Rename(0, "changed")
	s.Clear()
	if s.RemoveInvalid() != 0 {
		t.Error("RemoveInvalid removed entries during export")
	}

	if !reflect.DeepEqual(s.Entries(), before) {
		t.Error("collection mutated during export")
	}

	s.EndExport()
	if s.AddLink(ctx, "https://example.com/x.mp4", "") != true {
		t.Error("AddLink blocked after EndExport")
	}
}

func TestBeginExport(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A")}
	s := NewStore(resolver)

	if s.BeginExport() {
		t.Error("BeginExport = true on empty collection")
	}

	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")
	if !s.BeginExport() {
		t.Fatal("BeginExport = false on non-empty collection")
	}
	if s.BeginExport() {
		t.Error("BeginExport = true while already exporting")
	}
	s.EndExport()
	if s.IsExporting() {
		t.Error("IsExporting = true after EndExport")
	}
}

func TestThumbnailCounterResetsPerExport(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")

	s.BeginExport()
	s.AddThumbnailDownloaded()
	s.AddThumbnailDownloaded()
	s.EndExport()
	if got := s.ThumbnailsDownloaded(); got != 2 {
		t.Fatalf("ThumbnailsDownloaded = %d, want 2", got)
	}

	s.BeginExport()
	if got := s.ThumbnailsDownloaded(); got != 0 {
		t.Errorf("ThumbnailsDownloaded = %d after BeginExport, want 0", got)
	}
	s.EndExport()
}

func TestValidateAPIKey(t *testing.T) {
	resolver := &fakeResolver{keyOK: true}
	s := NewStore(resolver)

	if s.APIKeyStatus() != KeyStatusChecking {
		t.Errorf("initial status = %q, want checking", s.APIKeyStatus())
	}
	if !s.ValidateAPIKey(context.Background()) {
		t.Fatal("ValidateAPIKey = false, want true")
	}
	if s.APIKeyStatus() != KeyStatusValid {
		t.Errorf("status = %q, want valid", s.APIKeyStatus())
	}

	resolver.keyOK = false
	s.ValidateAPIKey(context.Background())
	if s.APIKeyStatus() != KeyStatusInvalid {
		t.Errorf("status = %q, want invalid", s.APIKeyStatus())
	}
}

func TestSetAPIKeyForwarded(t *testing.T) {
	resolver := &fakeResolver{}
	s := NewStore(resolver)
	s.SetAPIKey("new-key")
	if resolver.lastKey != "new-key" {
		t.Errorf("resolver key = %q, want new-key", resolver.lastKey)
	}
}

func TestRename(t *testing.T) {
	resolver := &fakeResolver{playlist: playlistOf("A")}
	s := NewStore(resolver)
	s.LoadPlaylist(context.Background(), "PLabcdefghij123456")

	s.Rename(0, "Better Name")
	if got := s.Entries()[0].DisplayName(); got != "Better Name" {
		t.Errorf("DisplayName = %q, want Better Name", got)
	}
}
