package embed

import (
	"net/url"
	"strings"
)

// PlayerParams are the fixed playback flags appended to every embed URL:
// autoplay muted, no native controls, minimal branding, inline playback and
// the player JS API enabled.
const PlayerParams = "autoplay=1&mute=1&controls=0&rel=0&modestbranding=1&playsinline=1&enablejsapi=1"

const embedBase = "https://www.youtube.com/embed/"

// VideoID extracts the video identifier from a short link
// (youtu.be/<id>) or a long-form link (youtube.com/watch?v=<id> or
// youtube.com/embed/<id>).
func VideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.Trim(parsed.Path, "/")

	var id string
	switch {
	case strings.Contains(host, "youtu.be"):
		if path != "" {
			id = strings.Split(path, "/")[0]
		}
	case strings.Contains(host, "youtube.com"):
		if path == "watch" {
			id = parsed.Query().Get("v")
		} else if parts := strings.Split(path, "/"); len(parts) >= 2 && parts[0] == "embed" {
			id = parts[1]
		}
	}

	if id == "" {
		return "", false
	}
	return id, true
}

// BuildEmbedURL returns the normalized player URL for raw, or false when raw
// is not a recognized video link.
func BuildEmbedURL(raw string) (string, bool) {
	id, ok := VideoID(raw)
	if !ok {
		return "", false
	}
	return embedBase + url.PathEscape(id) + "?" + PlayerParams, true
}

// WatchURL is the canonical page URL of an embed URL's video, used when
// probing availability.
func WatchURL(embedURL string) string {
	id, ok := VideoID(embedURL)
	if !ok {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
