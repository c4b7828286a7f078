// Package youtube provides identifier extraction and catalog lookups
// against the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
)

// Sentinel errors for catalog operations.
var (
	// ErrInvalidInput indicates the input carried no extractable identifier.
	ErrInvalidInput = errors.New("youtube: no video or playlist identifier in input")
	// ErrVideoNotFound indicates the catalog reported no item for the ID
	// (deleted, private, or nonexistent video).
	ErrVideoNotFound = errors.New("youtube: video not found")
	// ErrPlaylistNotFound indicates the playlist does not exist.
	ErrPlaylistNotFound = errors.New("youtube: playlist not found")
	// ErrNoThumbnail indicates the video has no fetchable thumbnail URL.
	ErrNoThumbnail = errors.New("youtube: no thumbnail available")
	// ErrMissingAPIKey indicates no API key is configured.
	ErrMissingAPIKey = errors.New("youtube: api key required")
)

// Video contains the resolved metadata for a single catalog item.
type Video struct {
	// ID is the canonical 11-character video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the catalog-reported title.
	Title string `json:"title"`

	// URL is the canonical playable URL reconstructed from the ID.
	URL string `json:"url"`

	// ThumbnailURL is a fetchable image URL. May be empty.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// WatchURL returns the canonical playable URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ClientError wraps transport or API failures with the operation that failed.
// Use errors.As() to extract it:
//
//	var clientErr *youtube.ClientError
//	if errors.As(err, &clientErr) {
//		fmt.Printf("%s failed: %v\n", clientErr.Op, clientErr.Err)
//	}
type ClientError struct {
	// Op is the catalog operation ("videos.list", "playlistItems.list", "thumbnail").
	Op string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the client error.
func (e *ClientError) Error() string {
	return "youtube: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *ClientError) Unwrap() error { return e.Err }

// catalogAPI is the raw page-level surface of the catalog, split out so
// tests can substitute a fake without network access.
type catalogAPI interface {
	videosByID(ctx context.Context, id string) (items []catalogItem, err error)
	playlistPage(ctx context.Context, playlistID, pageToken string) (items []catalogItem, nextPageToken string, err error)
}

// catalogItem is the normalized subset of a catalog response item.
type catalogItem struct {
	VideoID      string
	Title        string
	ThumbnailURL string
}
