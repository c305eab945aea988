// Package geocode resolves street addresses to coordinates through a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

const (
	defaultBaseURL             = "https://nominatim.openstreetmap.org"
	defaultUserAgent           = "CardChase-LocationPortal/1.0"
	requestBodyReadLimit int64 = 1024
	cacheCleanupInterval       = 10 * time.Minute
)

// ErrNoMatch is returned when the search succeeds but finds nothing.
var ErrNoMatch = errors.New("geocode: no match")

// Point is a resolved coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Address is the structured input a location stores.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Complete reports whether street, city and state are all present.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.State) != ""
}

// Query renders "street, city, state, zip, USA".
func (a Address) Query() string {
	parts := []string{
		strings.TrimSpace(a.Street),
		strings.TrimSpace(a.City),
		strings.TrimSpace(a.State),
		strings.TrimSpace(a.Zip),
		"USA",
	}
	return strings.Join(parts, ", ")
}

// Client wraps the search endpoint with a request throttle and a result cache.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	cache      *cache.Cache
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the search base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(agent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithRate limits outbound searches to perSecond requests with a burst of one.
// Zero or negative disables throttling.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithCacheTTL memoises successful lookups for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = cache.New(ttl, cacheCleanupInterval)
	}
}

// NewClient builds a geocoder with Nominatim defaults: one request per second
// and a one-day result cache.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		cache:      cache.New(24*time.Hour, cacheCleanupInterval),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Lookup resolves an address. It returns ErrNoMatch when the search is empty.
func (c *Client) Lookup(ctx context.Context, addr Address) (Point, error) {
	if c == nil {
		return Point{}, pkgerrors.New(pkgerrors.CodeDependency, "geocoder not configured")
	}
	if !addr.Complete() {
		return Point{}, pkgerrors.New(pkgerrors.CodeValidation, "address, city and state are required to geocode")
	}

	query := addr.Query()
	key := strings.ToLower(query)
	if c.cache != nil {
		if hit, ok := c.cache.Get(key); ok {
			return hit.(Point), nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "geocode throttle")
		}
	}

	point, err := c.search(ctx, query)
	if err != nil {
		return Point{}, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, point)
	}
	return point, nil
}

func (c *Client) search(ctx context.Context, query string) (Point, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/search?%s", strings.TrimRight(c.baseURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}
	if len(results) == 0 {
		return Point{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse longitude")
	}
	return Point{Latitude: lat, Longitude: lon}, nil
}
