// Package videoid resolves the many URL shapes YouTube uses into the one
// canonical video identity. Pure string matching, no network.
package videoid

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// ErrNoVideoID is returned for input that does not match any recognized
// YouTube URL shape.
var ErrNoVideoID = errors.New("no video id in url")

// Recognized shapes, tried in order; the first structural match wins.
// Ambiguous or malformed input resolves to nothing, never to a partial id.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#\s]*&)?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]+)`),
}

// Resolve extracts the canonical video identity from a raw URL string.
// Equivalent watch/short-link/embed/shorts forms of the same video all
// resolve to the same identity.
func Resolve(raw string) (types.VideoID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoVideoID
	}
	for _, re := range patterns {
		if m := re.FindStringSubmatch(raw); len(m) == 2 && m[1] != "" {
			return types.VideoID(m[1]), nil
		}
	}
	return "", ErrNoVideoID
}

// WatchURL returns the canonical watch URL for an identity, the form the
// download tooling expects.
func WatchURL(id types.VideoID) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(string(id))
}
