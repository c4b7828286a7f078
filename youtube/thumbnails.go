package youtube

import (
	"context"

	"ytmanifest/http"
)

// ThumbnailFetcher retrieves raw thumbnail image bytes.
type ThumbnailFetcher struct {
	client *http.Client
}

// NewThumbnailFetcher creates a fetcher over the given HTTP client.
// A nil client gets the default configuration.
func NewThumbnailFetcher(client *http.Client) *ThumbnailFetcher {
	if client == nil {
		client = http.New(nil)
	}
	return &ThumbnailFetcher{client: client}
}

// Fetch downloads the raw image bytes behind thumbnailURL.
// An empty URL returns ErrNoThumbnail without a network call.
func (f *ThumbnailFetcher) Fetch(ctx context.Context, thumbnailURL string) ([]byte, error) {
	if thumbnailURL == "" {
		return nil, ErrNoThumbnail
	}

	resp, err := f.client.Get(ctx, thumbnailURL)
	if err != nil {
		return nil, &ClientError{Op: "thumbnail", Err: err}
	}
	return resp.Body, nil
}
