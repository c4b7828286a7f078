// Package export serializes the collection into the Name@URL manifest
// consumed by the downstream playback add-on, plus optional thumbnail
// artifacts.
package export

import (
	"strings"

	"ytmanifest/collection"
)

// RenderManifest builds the manifest text: one line per entry in collection
// order, of the exact form <displayName>@<prefix><url>. The prefix is
// concatenated directly in front of the URL with no separator; lines are
// joined with a single newline and there is no trailing newline.
func RenderManifest(entries []collection.Entry, prefix string) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.DisplayName()+"@"+prefix+e.URL)
	}
	return strings.Join(lines, "\n")
}

// sanitizeFilename removes/replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacements := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := s
	for _, char := range replacements {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
