// Package apiclient talks to the signage backend's tenant API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/metrics"
	"github.com/tinytelemetry/signboard/internal/model"
	"golang.org/x/time/rate"
)

// Endpoint names, also used as metric labels and sequence kinds.
const (
	EndpointConfig   = "config"
	EndpointArrivals = "arrivals"
	EndpointMenu     = "menu"
	EndpointWeather  = "weather"
)

// SessionHeader carries the per-process board session id.
const SessionHeader = "X-Board-Session"

const maxBodyBytes = 1 << 20

// StatusError is returned for any non-2xx response the board does not
// treat specially.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// Options tune a Client. Zero values are usable.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Session    string
	Limiter    *rate.Limiter
	Metrics    *metrics.Metrics
	Logger     *logging.Logger
}

// Client implements model.Backend over HTTP.
type Client struct {
	target  Target
	http    *http.Client
	ua      string
	session string
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *logging.Logger
}

var _ model.Backend = (*Client)(nil)

func New(target Target, opts Options) *Client {
	c := &Client{
		target:  target,
		http:    opts.HTTPClient,
		ua:      opts.UserAgent,
		session: opts.Session,
		limiter: opts.Limiter,
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	return c
}

func (c *Client) Target() Target { return c.target }

func (c *Client) Config(ctx context.Context) (model.TenantConfig, error) {
	var cfg model.TenantConfig
	if _, err := c.get(ctx, EndpointConfig, &cfg); err != nil {
		return model.TenantConfig{}, err
	}
	return cfg, nil
}

func (c *Client) Arrivals(ctx context.Context) (model.ArrivalsResponse, error) {
	var resp model.ArrivalsResponse
	if _, err := c.get(ctx, EndpointArrivals, &resp); err != nil {
		return model.ArrivalsResponse{}, err
	}
	return resp, nil
}

func (c *Client) Menu(ctx context.Context) (model.MenuDocument, error) {
	var doc model.MenuDocument
	if _, err := c.get(ctx, EndpointMenu, &doc); err != nil {
		return model.MenuDocument{}, err
	}
	return doc, nil
}

// Weather returns (nil, nil) when the backend answers 204 No Content,
// meaning the tenant has no weather widget.
func (c *Client) Weather(ctx context.Context) (*model.WeatherSnapshot, error) {
	var snap model.WeatherSnapshot
	status, err := c.get(ctx, EndpointWeather, &snap)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &snap, nil
}

func (c *Client) endpointURL(endpoint string) string {
	return c.target.BaseURL + "/api/tenants/" + url.PathEscape(c.target.TenantCode) + "/" + endpoint
}

func (c *Client) get(ctx context.Context, endpoint string, out any) (status int, err error) {
	start := time.Now()
	n := 0
	defer func() {
		c.metrics.ObserveFetch(endpoint, time.Since(start).Seconds(), n, err)
	}()

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%s: waiting for rate limiter: %w", endpoint, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: building request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	n = len(body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: reading body: %w", endpoint, err)
	}

	c.log.Debugw("backend response", "endpoint", endpoint, "status", resp.StatusCode, "bytes", n)

	if endpoint == EndpointWeather && resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	if err = json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: decoding body: %w", endpoint, err)
	}
	return resp.StatusCode, nil
}
