package apiclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tinytelemetry/signboard/internal/model"
)

var (
	// ErrMissingTenant means the board URL has no /t/<code> path.
	ErrMissingTenant = errors.New("missing tenant code")
	// ErrInvalidBoardURL means the board URL has no scheme or host.
	ErrInvalidBoardURL = errors.New("invalid board url")
)

// Target is what a board URL resolves to.
type Target struct {
	BaseURL        string
	TenantCode     string
	LayoutOverride model.Layout
}

// ParseBoardURL splits <scheme>://<host>/t/<code>[?layout=...] into the
// backend base URL, the tenant code and an optional layout override. A layout
// value other than horizontal or vertical is ignored.
func ParseBoardURL(raw string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidBoardURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidBoardURL, raw)
	}

	t := Target{BaseURL: u.Scheme + "://" + u.Host}
	if l, ok := model.ParseLayout(u.Query().Get("layout")); ok {
		t.LayoutOverride = l
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 || parts[0] != "t" {
		return t, ErrMissingTenant
	}
	t.TenantCode = parts[1]
	return t, nil
}
