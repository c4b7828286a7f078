package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

// videoIDLength is the fixed length of a YouTube video identifier.
// Captured segments of any other length are treated as corrupted matches.
const videoIDLength = 11

var (
	// videoRefPattern matches the URL shapes that carry a video ID:
	// short-link, /v/, /u/<x>/, /embed/, watch?v= and any &v= parameter.
	videoRefPattern = regexp.MustCompile(`(youtu\.be/|/v/|/u/\w/|/embed/|watch\?v=|&v=)([^#&?]*)`)

	// playlistIDPattern matches a canonical playlist ID on its own.
	playlistIDPattern = regexp.MustCompile(`^PL[a-zA-Z0-9_-]{16,}$`)

	// playlistParamPattern captures the list= query parameter.
	playlistParamPattern = regexp.MustCompile(`list=([^#&?]*)`)

	// playlistShortLinkPattern captures the path segment of a short link,
	// consulted only when no list= parameter is present.
	playlistShortLinkPattern = regexp.MustCompile(`youtu\.be/([^#&?]*)`)
)

// ExtractVideoID parses a free-form string into a canonical video ID.
// It accepts the common YouTube URL variants and reports ok=false for
// anything that does not yield an exactly 11-character identifier.
// When several shapes occur in one string, the last one wins.
func ExtractVideoID(s string) (string, bool) {
	matches := videoRefPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	id := matches[len(matches)-1][2]
	if len(id) != videoIDLength {
		return "", false
	}
	return id, true
}

// ExtractPlaylistID parses a free-form string into a playlist ID.
// A string that already is a canonical playlist ID is returned unchanged.
// The list= parameter takes precedence over a short-link path segment, so
// a share link carrying both yields the playlist, not the video.
func ExtractPlaylistID(s string) (string, bool) {
	if playlistIDPattern.MatchString(s) {
		return s, true
	}

	if m := playlistParamPattern.FindStringSubmatch(s); m != nil && m[1] != "" {
		return m[1], true
	}
	if m := playlistShortLinkPattern.FindStringSubmatch(s); m != nil && m[1] != "" {
		return m[1], true
	}
	return "", false
}

// IsVideoURL reports whether s contains an extractable video ID.
func IsVideoURL(s string) bool {
	_, ok := ExtractVideoID(s)
	return ok
}

// IsGenericURL reports whether s is a syntactically valid http or https URL.
// Used for accepting arbitrary links as manual entries.
func IsGenericURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
