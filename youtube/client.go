package youtube

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytmanifest/retry"
)

const (
	// maxPageSize is the provider's stated maximum page size for
	// playlistItems.list.
	maxPageSize = 50

	// checkVideoID is a fixed, well-known video used to probe whether the
	// configured API key is accepted.
	checkVideoID = "dQw4w9WgXcQ"

	// dailyQuotaUnits is the default daily quota for an API project.
	dailyQuotaUnits = 10000
)

// Titles YouTube substitutes for playlist entries whose video is gone.
// Such entries carry no usable identifier and are dropped.
const (
	deletedVideoTitle = "Deleted video"
	privateVideoTitle = "Private video"
)

// Client talks to the YouTube Data API v3. It holds the active API key,
// which is replaceable at runtime; replacing it takes effect for calls
// issued afterwards.
type Client struct {
	mu     sync.Mutex
	apiKey string
	api    catalogAPI // nil until first use or after a key change

	// newAPI builds the catalog backend for the current key.
	// Overridable in tests.
	newAPI func(ctx context.Context, apiKey string) (catalogAPI, error)

	// Quota tracking
	estimatedQuota int
	lastQuotaReset time.Time

	RetryConfig retry.Config
}

// NewClient creates a catalog client using the given API key.
// The key is not validated here; use CheckAPIKey for that.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &Client{
		apiKey:         apiKey,
		newAPI:         newGoogleAPI,
		estimatedQuota: dailyQuotaUnits,
		lastQuotaReset: time.Now(),
		RetryConfig:    retry.DefaultConfig(),
	}, nil
}

// SetAPIKey replaces the active API key for all subsequent calls.
// No validation is performed at set time.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if apiKey == c.apiKey {
		return
	}
	c.apiKey = apiKey
	c.api = nil // rebuilt lazily with the new key
}

// CheckAPIKey probes the catalog with a known video ID and reports whether
// the configured key is accepted. Every failure mode (HTTP error, quota,
// malformed response) collapses to false; this never returns an error.
func (c *Client) CheckAPIKey(ctx context.Context) bool {
	api, err := c.backend(ctx)
	if err != nil {
		log.Printf("youtube: api key check: %v", err)
		return false
	}

	items, err := api.videosByID(ctx, checkVideoID)
	c.trackQuotaUsage(1)
	if err != nil {
		log.Printf("youtube: api key check: %v", err)
		return false
	}
	return len(items) > 0
}

// VideoInfo resolves a free-form video URL into a Video.
// Returns ErrInvalidInput without a network call when no ID can be
// extracted, and ErrVideoNotFound when the catalog has no item for the ID.
func (c *Client) VideoInfo(ctx context.Context, rawURL string) (Video, error) {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return Video{}, ErrInvalidInput
	}

	api, err := c.backend(ctx)
	if err != nil {
		return Video{}, &ClientError{Op: "videos.list", Err: err}
	}

	var items []catalogItem
	err = retry.Do(ctx, c.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		var err error
		items, err = api.videosByID(ctx, id)
		c.trackQuotaUsage(1)
		return err
	})
	if err != nil {
		return Video{}, &ClientError{Op: "videos.list", Err: err}
	}

	if len(items) == 0 {
		return Video{}, ErrVideoNotFound
	}

	title := items[0].Title
	if title == "" {
		title = "Untitled Video"
	}

	return Video{
		ID:           id,
		Title:        title,
		URL:          WatchURL(id),
		ThumbnailURL: items[0].ThumbnailURL,
	}, nil
}

// PlaylistVideos resolves a playlist ID or URL into its videos, paginating
// until the provider reports no further pages. Entries whose title is
// exactly "Deleted video" or "Private video" are dropped; provider order is
// preserved for the rest.
//
// A mid-pagination failure returns the accumulated prefix together with the
// error, so callers can keep the partial result.
func (c *Client) PlaylistVideos(ctx context.Context, idOrURL string) ([]Video, error) {
	playlistID, ok := ExtractPlaylistID(idOrURL)
	if !ok {
		return nil, ErrInvalidInput
	}

	api, err := c.backend(ctx)
	if err != nil {
		return nil, &ClientError{Op: "playlistItems.list", Err: err}
	}

	var videos []Video
	pageToken := ""
	for {
		var items []catalogItem
		var next string
		err := retry.Do(ctx, c.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
			var err error
			items, next, err = api.playlistPage(ctx, playlistID, pageToken)
			c.trackQuotaUsage(1)
			return err
		})
		if err != nil {
			if isNotFound(err) {
				return videos, ErrPlaylistNotFound
			}
			return videos, &ClientError{Op: "playlistItems.list", Err: err}
		}

		for _, item := range items {
			if item.Title == deletedVideoTitle || item.Title == privateVideoTitle {
				continue
			}
			if item.VideoID == "" {
				continue
			}
			title := item.Title
			if title == "" {
				title = "Untitled Video"
			}
			videos = append(videos, Video{
				ID:           item.VideoID,
				Title:        title,
				URL:          WatchURL(item.VideoID),
				ThumbnailURL: item.ThumbnailURL,
			})
		}

		if next == "" {
			break
		}
		pageToken = next
	}

	return videos, nil
}

// EstimatedQuota returns the estimated remaining daily quota units.
func (c *Client) EstimatedQuota() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimatedQuota
}

// backend returns the catalog backend for the current key, building it on
// first use and after key changes.
func (c *Client) backend(ctx context.Context) (catalogAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.api != nil {
		return c.api, nil
	}

	api, err := c.newAPI(ctx, c.apiKey)
	if err != nil {
		return nil, err
	}
	c.api = api
	return api, nil
}

// trackQuotaUsage updates the estimated remaining quota.
// videos.list and playlistItems.list each cost 1 unit per request.
func (c *Client) trackQuotaUsage(units int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastQuotaReset) > 24*time.Hour {
		c.estimatedQuota = dailyQuotaUnits
		c.lastQuotaReset = time.Now()
	}

	c.estimatedQuota -= units
	if c.estimatedQuota <= 0 {
		log.Printf("youtube: estimated daily quota exhausted")
	}
}

// apiErrorClassifier determines if an API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if !retry.IsRetryable(err) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		// Rate limit responses carry 403 with a quota reason.
		if apiErr.Code == 403 {
			return strings.Contains(apiErr.Error(), "quotaExceeded") ||
				strings.Contains(apiErr.Error(), "rateLimitExceeded")
		}
		if apiErr.Code == 429 {
			return true
		}
		// Other 4xx are permanent.
		if apiErr.Code >= 400 && apiErr.Code < 500 {
			return false
		}
		return apiErr.Code >= 500
	}

	// Default to retryable for unknown (likely network) errors.
	return true
}

// isNotFound reports whether err is a 404 from the API.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

// googleAPI implements catalogAPI over google.golang.org/api/youtube/v3.
type googleAPI struct {
	service *youtube.Service
}

func newGoogleAPI(ctx context.Context, apiKey string) (catalogAPI, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &googleAPI{service: service}, nil
}

func (g *googleAPI) videosByID(ctx context.Context, id string) ([]catalogItem, error) {
	resp, err := g.service.Videos.List([]string{"snippet"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	items := make([]catalogItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		ci := catalogItem{VideoID: item.Id}
		if item.Snippet != nil {
			ci.Title = item.Snippet.Title
			ci.ThumbnailURL = smallestThumbnail(item.Snippet.Thumbnails)
		}
		items = append(items, ci)
	}
	return items, nil
}

func (g *googleAPI) playlistPage(ctx context.Context, playlistID, pageToken string) ([]catalogItem, string, error) {
	resp, err := g.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(maxPageSize).
		PageToken(pageToken).
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", err
	}

	items := make([]catalogItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		var ci catalogItem
		if item.Snippet != nil {
			ci.Title = item.Snippet.Title
			ci.ThumbnailURL = smallestThumbnail(item.Snippet.Thumbnails)
			if item.Snippet.ResourceId != nil {
				ci.VideoID = item.Snippet.ResourceId.VideoId
			}
		}
		items = append(items, ci)
	}
	return items, resp.NextPageToken, nil
}

// smallestThumbnail picks the smallest available thumbnail variant.
func smallestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, variant := range []*youtube.Thumbnail{t.Default, t.Medium, t.High, t.Standard, t.Maxres} {
		if variant != nil && variant.Url != "" {
			return variant.Url
		}
	}
	return ""
}
