package collection

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ytmanifest/youtube"
)

// Resolver is the subset of the catalog client the store depends on.
type Resolver interface {
	// VideoInfo resolves a video URL into its metadata.
	VideoInfo(ctx context.Context, rawURL string) (youtube.Video, error)
	// PlaylistVideos resolves a playlist ID or URL into its videos.
	// A partial result may accompany a non-nil error.
	PlaylistVideos(ctx context.Context, idOrURL string) ([]youtube.Video, error)
	// CheckAPIKey reports whether the active key is accepted.
	CheckAPIKey(ctx context.Context) bool
	// SetAPIKey replaces the active key for subsequent calls.
	SetAPIKey(apiKey string)
}

// PendingPlaylist holds playlist videos that were resolved but not yet
// appended, so a caller can supply custom names before committing.
type PendingPlaylist struct {
	// Token identifies this resolution for a later CommitPending call.
	Token string
	// Entries are the candidate entries in provider order.
	Entries []Entry
}

// Store owns the ordered collection, the export configuration, the export
// lock, and the API key status. Construct one per session with NewStore;
// all methods are safe for concurrent use.
//
// Every mutator checks the export lock first and performs no partial
// mutation when rejected.
type Store struct {
	mu       sync.Mutex
	resolver Resolver

	entries []Entry
	pending map[string]*PendingPlaylist

	prefix             string
	fileName           string
	removeInvalidLinks bool
	downloadThumbnails bool
	useCustomNames     bool

	exporting            bool
	thumbnailsDownloaded int
	keyStatus            KeyStatus
}

// NewStore creates an empty collection store backed by the given resolver.
func NewStore(resolver Resolver) *Store {
	return &Store{
		resolver:  resolver,
		pending:   make(map[string]*PendingPlaylist),
		fileName:  "urls",
		keyStatus: KeyStatusChecking,
	}
}

// AddLink classifies raw and appends a single entry.
//
// A catalog URL is resolved through the resolver; customName defaults to
// the catalog title when empty. Any other syntactically valid http(s) URL
// becomes a manual entry with a synthetic ID and, when no name is supplied,
// an auto-numbered placeholder title. Anything else is rejected.
//
// Returns false, leaving the collection unchanged, when the input is not
// addable or while an export is in flight.
func (s *Store) AddLink(ctx context.Context, raw, customName string) bool {
	if s.IsExporting() {
		return false
	}

	if youtube.IsVideoURL(raw) {
		video, err := s.resolver.VideoInfo(ctx, raw)
		if err != nil {
			log.Printf("collection: resolve %q: %v", raw, err)
			return false
		}
		name := customName
		if name == "" {
			name = video.Title
		}
		return s.append(Entry{
			ID:           video.ID,
			Title:        video.Title,
			URL:          video.URL,
			ThumbnailURL: video.ThumbnailURL,
			CustomName:   name,
		})
	}

	if youtube.IsGenericURL(raw) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.exporting {
			return false
		}
		title := customName
		if title == "" {
			title = fmt.Sprintf("Video %d", len(s.entries)+1)
		}
		s.entries = append(s.entries, Entry{
			ID:         fmt.Sprintf("manual-%d", time.Now().UnixMilli()),
			Title:      title,
			URL:        raw,
			CustomName: customName,
		})
		return true
	}

	return false
}

// LoadPlaylist resolves a playlist and appends its videos, returning how
// many were resolved. When the use-custom-names toggle is on, nothing is
// appended: the videos are held as a pending playlist (see LastPending) so
// the caller can drive a naming flow and commit later.
//
// Returns 0 while an export is in flight or when nothing resolves.
// A partial resolution (pagination aborted midway) still counts.
func (s *Store) LoadPlaylist(ctx context.Context, idOrURL string) int {
	if s.IsExporting() {
		return 0
	}

	pending, err := s.ResolvePlaylist(ctx, idOrURL)
	if err != nil && pending == nil {
		log.Printf("collection: load playlist %q: %v", idOrURL, err)
		return 0
	}
	if len(pending.Entries) == 0 {
		s.dropPending(pending.Token)
		return 0
	}

	if s.UseCustomNames() {
		return len(pending.Entries)
	}
	return s.CommitPending(pending.Token, nil)
}

// ResolvePlaylist resolves a playlist without mutating the collection.
// The result is held until CommitPending consumes its token.
// A partial resolution is returned alongside the error that cut it short.
func (s *Store) ResolvePlaylist(ctx context.Context, idOrURL string) (*PendingPlaylist, error) {
	videos, err := s.resolver.PlaylistVideos(ctx, idOrURL)
	if err != nil && len(videos) == 0 {
		return nil, err
	}
	if err != nil {
		log.Printf("collection: playlist %q resolved partially (%d entries): %v", idOrURL, len(videos), err)
	}

	entries := make([]Entry, 0, len(videos))
	for _, v := range videos {
		entries = append(entries, Entry{
			ID:           v.ID,
			Title:        v.Title,
			URL:          v.URL,
			ThumbnailURL: v.ThumbnailURL,
			CustomName:   v.Title,
		})
	}

	pending := &PendingPlaylist{
		Token:   uuid.NewString(),
		Entries: entries,
	}

	s.mu.Lock()
	s.pending[pending.Token] = pending
	s.mu.Unlock()

	return pending, err
}

// CommitPending appends a previously resolved playlist, applying
// nameOverrides (position within the pending list -> custom name), and
// consumes the token. Returns the number of appended entries; 0 for an
// unknown token or while an export is in flight.
func (s *Store) CommitPending(token string, nameOverrides map[int]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting {
		return 0
	}
	pending, ok := s.pending[token]
	if !ok {
		return 0
	}
	delete(s.pending, token)

	for i, entry := range pending.Entries {
		if name, ok := nameOverrides[i]; ok && name != "" {
			entry.CustomName = name
		}
		s.entries = append(s.entries, entry)
	}
	return len(pending.Entries)
}

// LastPending returns the most recently resolved, uncommitted playlist, or
// nil when none is held.
func (s *Store) LastPending() *PendingPlaylist {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *PendingPlaylist
	for _, p := range s.pending {
		last = p
	}
	return last
}

// RemoveAt removes the entry at index i. No-op while exporting or when i is
// out of bounds.
func (s *Store) RemoveAt(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting || i < 0 || i >= len(s.entries) {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}

// Reorder moves the entry at from to position to, preserving the relative
// order of all other entries. No-op while exporting or when either index is
// out of bounds.
func (s *Store) Reorder(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting {
		return
	}
	if from < 0 || from >= len(s.entries) || to < 0 || to >= len(s.entries) {
		return
	}

	entry := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries[:to], append([]Entry{entry}, s.entries[to:]...)...)
}

// Rename sets the custom name of the entry at index i. No-op while
// exporting or when i is out of bounds.
func (s *Store) Rename(i int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting || i < 0 || i >= len(s.entries) {
		return
	}
	s.entries[i].CustomName = name
}

// Clear empties the collection. No-op while exporting.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting {
		return
	}
	s.entries = nil
}

// RemoveInvalid drops entries whose URL is neither a catalog URL nor a
// syntactically valid http(s) URL, returning how many were removed. This is
// the pre-export policy behind the remove-invalid-links toggle; the
// exporter itself never re-validates.
func (s *Store) RemoveInvalid() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting {
		return 0
	}

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if youtube.IsVideoURL(e.URL) || youtube.IsGenericURL(e.URL) {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	s.entries = kept
	return removed
}

// Entries returns a copy of the collection in order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SetAPIKey replaces the catalog API key for subsequent calls.
func (s *Store) SetAPIKey(apiKey string) {
	s.resolver.SetAPIKey(apiKey)
}

// ValidateAPIKey validates the active key against the catalog, updating the
// key status to checking for the duration of the round-trip and then to
// valid or invalid.
func (s *Store) ValidateAPIKey(ctx context.Context) bool {
	s.setKeyStatus(KeyStatusChecking)
	ok := s.resolver.CheckAPIKey(ctx)
	if ok {
		s.setKeyStatus(KeyStatusValid)
	} else {
		s.setKeyStatus(KeyStatusInvalid)
	}
	return ok
}

// APIKeyStatus returns the result of the last validation round-trip.
func (s *Store) APIKeyStatus() KeyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyStatus
}

// BeginExport acquires the export lock and resets the thumbnail counter.
// Returns false, with no state change, when an export is already in flight
// or the collection is empty.
func (s *Store) BeginExport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting || len(s.entries) == 0 {
		return false
	}
	s.exporting = true
	s.thumbnailsDownloaded = 0
	return true
}

// EndExport releases the export lock.
func (s *Store) EndExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exporting = false
}

// IsExporting reports whether an export is in flight.
func (s *Store) IsExporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// AddThumbnailDownloaded increments the per-export thumbnail counter.
func (s *Store) AddThumbnailDownloaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbnailsDownloaded++
}

// ThumbnailsDownloaded returns the thumbnail count of the current or most
// recent export.
func (s *Store) ThumbnailsDownloaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thumbnailsDownloaded
}

// SetPrefix sets the string prepended to every URL at export time.
func (s *Store) SetPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = prefix
}

// Prefix returns the export URL prefix.
func (s *Store) Prefix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefix
}

// SetFileName sets the extension-less base name of the manifest artifact.
func (s *Store) SetFileName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.fileName = name
	}
}

// FileName returns the manifest base name.
func (s *Store) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// SetRemoveInvalidLinks sets the pre-export filtering toggle.
func (s *Store) SetRemoveInvalidLinks(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeInvalidLinks = v
}

// RemoveInvalidLinks returns the pre-export filtering toggle.
func (s *Store) RemoveInvalidLinks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeInvalidLinks
}

// SetDownloadThumbnails sets the thumbnail download toggle.
func (s *Store) SetDownloadThumbnails(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadThumbnails = v
}

// DownloadThumbnails returns the thumbnail download toggle.
func (s *Store) DownloadThumbnails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloadThumbnails
}

// SetUseCustomNames sets the toggle that holds playlist loads for a
// caller-driven naming flow instead of appending immediately.
func (s *Store) SetUseCustomNames(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useCustomNames = v
}

// UseCustomNames returns the custom-naming toggle.
func (s *Store) UseCustomNames() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useCustomNames
}

func (s *Store) setKeyStatus(status KeyStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyStatus = status
}

func (s *Store) dropPending(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, token)
}

// append adds an entry, re-checking the export lock under the mutex since
// resolution happened outside it.
func (s *Store) append(entry Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporting {
		return false
	}
	s.entries = append(s.entries, entry)
	return true
}
