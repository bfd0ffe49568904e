// Package geocode resolves postal addresses to coordinates against a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/jcabrera-io/wayfarer/internal/domain"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// Client implements domain.Geocoder over HTTP. Outbound requests go through
// an SSRF-guarded client so a misconfigured endpoint cannot reach private
// address ranges, and are throttled to one per second per the Nominatim
// usage policy.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics Metrics
}

// Metrics counts failed lookups. A nil Metrics disables counting.
type Metrics interface {
	RecordGeocodeFailure()
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics attaches a failure counter to the client.
func WithMetrics(m Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the SSRF-guarded default client. Tests use this to
// point at local fixture servers, which the guarded client blocks.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a geocoding client for the given Nominatim-compatible base URL.
func New(baseURL string, opts ...Option) *Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(defaultTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    safeurl.Client(config).Client,
		limiter: rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve looks up the address and returns its coordinate pair. An address
// the endpoint cannot resolve fails with ErrGeocodeFailure; a lookup that
// does not answer within the timeout fails with ErrDependencyTimeout.
func (c *Client) Resolve(ctx context.Context, address string) (coord domain.Coordinate, err error) {
	defer func() {
		if err != nil && c.metrics != nil {
			c.metrics.RecordGeocodeFailure()
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %w", domain.ErrDependencyTimeout, err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "wayfarer/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return domain.Coordinate{}, fmt.Errorf("%w: %w", domain.ErrDependencyTimeout, err)
		}
		return domain.Coordinate{}, fmt.Errorf("%w: %w", domain.ErrGeocodeFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("%w: geocoder returned status %d", domain.ErrGeocodeFailure, resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: decode response: %w", domain.ErrGeocodeFailure, err)
	}
	if len(results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("%w: no result for %q", domain.ErrGeocodeFailure, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: parse lat: %w", domain.ErrGeocodeFailure, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: parse lon: %w", domain.ErrGeocodeFailure, err)
	}

	return domain.Coordinate{Lat: lat, Lng: lng}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
