// Package collection maintains the ordered, user-mutable list of resolved
// entries together with the export configuration and the export lock.
package collection

// Entry is one resolved item in the collection. Insertion order is display
// and export order.
type Entry struct {
	// ID is the canonical 11-character video ID, or "manual-<unix-ms>" for
	// non-catalog entries.
	ID string `json:"id"`

	// Title is the catalog-reported title, or a generated placeholder for
	// non-catalog entries.
	Title string `json:"title"`

	// URL is the canonical playable URL for catalog entries, or the raw
	// input for manual entries.
	URL string `json:"url"`

	// ThumbnailURL is a fetchable image URL. May be empty, never absent.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	// CustomName overrides Title for display and export when non-empty.
	CustomName string `json:"custom_name,omitempty"`
}

// DisplayName returns the name used for display and export:
// CustomName when set, Title otherwise.
func (e Entry) DisplayName() string {
	if e.CustomName != "" {
		return e.CustomName
	}
	return e.Title
}

// KeyStatus reflects the last API key validation round-trip.
type KeyStatus string

// KeyStatus values.
const (
	KeyStatusChecking KeyStatus = "checking"
	KeyStatusValid    KeyStatus = "valid"
	KeyStatusInvalid  KeyStatus = "invalid"
)
