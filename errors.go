package ytmanifest

import (
	"ytmanifest/export"
	"ytmanifest/retry"
	"ytmanifest/storage"
	"ytmanifest/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytmanifest.ErrPlaylistNotFound) {
//		fmt.Println("Playlist not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var clientErr *ytmanifest.ClientError
//	if errors.As(err, &clientErr) {
//		fmt.Printf("%s failed: %v\n", clientErr.Op, clientErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// ClientError wraps errors from catalog lookups.
	ClientError = youtube.ClientError
	// ExhaustedError wraps errors that occurred after retries were exhausted.
	ExhaustedError = retry.ExhaustedError
	// StorageError wraps errors during artifact writes.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidInput indicates the input is not a recognizable reference.
	ErrInvalidInput = youtube.ErrInvalidInput
	// ErrVideoNotFound indicates the video does not exist or is not visible.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrPlaylistNotFound indicates the playlist does not exist or is not visible.
	ErrPlaylistNotFound = youtube.ErrPlaylistNotFound
	// ErrNoThumbnail indicates the entry has no thumbnail to fetch.
	ErrNoThumbnail = youtube.ErrNoThumbnail
	// ErrMissingAPIKey indicates no API key is configured.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey

	// Export errors
	// ErrExportInProgress indicates a prior export is still in flight.
	ErrExportInProgress = export.ErrExportInProgress
	// ErrNothingToExport indicates the collection is empty.
	ErrNothingToExport = export.ErrNothingToExport

	// Storage errors
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like context cancellation.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
