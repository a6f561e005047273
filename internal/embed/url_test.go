package embed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmbedURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
	}{
		{"short link", "https://youtu.be/abc123", "abc123"},
		{"short link with extra path", "https://youtu.be/abc123/extra?t=10", "abc123"},
		{"watch link", "https://www.youtube.com/watch?v=xyz", "xyz"},
		{"watch link with more params", "https://youtube.com/watch?list=PL1&v=xyz&t=3", "xyz"},
		{"embed link", "https://www.youtube.com/embed/xyz", "xyz"},
		{"embed link trailing slash", "https://www.youtube.com/embed/xyz/", "xyz"},
		{"mixed case host", "https://WWW.YouTube.COM/watch?v=Q1", "Q1"},
		{"surrounding whitespace", "  https://youtu.be/spaced  ", "spaced"},
		{"mobile host", "https://m.youtube.com/watch?v=mob", "mob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BuildEmbedURL(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, "https://www.youtube.com/embed/"+tt.wantID+"?"+PlayerParams, got)
		})
	}
}

func TestBuildEmbedURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"https://example.com/video",
		"https://vimeo.com/12345",
		"https://youtu.be/",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=",
		"https://www.youtube.com/embed/",
		"https://www.youtube.com/channel/UC123",
		"youtu.be/abc123",
		"not a url",
		"://broken",
	} {
		got, ok := BuildEmbedURL(raw)
		assert.False(t, ok, "raw %q", raw)
		assert.Empty(t, got, "raw %q", raw)
	}
}

func TestBuildEmbedURL_Flags(t *testing.T) {
	got, ok := BuildEmbedURL("https://www.youtube.com/watch?v=VIDEO123")
	assert.True(t, ok)
	for _, flag := range []string{"autoplay=1", "mute=1", "controls=0", "modestbranding=1", "playsinline=1", "enablejsapi=1"} {
		assert.True(t, strings.Contains(got, flag), "missing %s in %s", flag, got)
	}
}

func TestWatchURL(t *testing.T) {
	src, _ := BuildEmbedURL("https://youtu.be/abc123")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", WatchURL(src))
	assert.Empty(t, WatchURL("https://example.com"))
}
