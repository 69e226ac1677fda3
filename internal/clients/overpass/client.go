// Package overpass queries the OSM Overpass API for bridge and tunnel ways
// within a bounding region and converts them into analysis candidates.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/cache"
	"github.com/dpup/brunnels/internal/lib/brunnel"
	"github.com/dpup/brunnels/internal/lib/geo"
	"github.com/dpup/brunnels/internal/lib/route"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// Client fetches crossing candidates from an Overpass interpreter. Responses
// are cached by region so repeated runs over the same route skip the network.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cache      *cache.Cache
	cacheTTL   time.Duration
	maxRetries int
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint points the client at a different Overpass interpreter.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithCache enables response caching with the given TTL.
func WithCache(store *cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithLogger injects a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxRetries sets how many times a failed query is retried before giving
// up. Retries apply to rate limiting and server errors, not to bad requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// NewClient creates an Overpass client with a 30 second timeout, the public
// endpoint, and 3 retries.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		maxRetries: 3,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// element is a single way in an Overpass JSON response with geometry output.
type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Nodes    []int64           `json:"nodes"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

type response struct {
	Elements []element `json:"elements"`
}

// QueryCrossings fetches all bridge and tunnel ways whose geometry intersects
// the region, in source order, converted to candidates.
func (c *Client) QueryCrossings(ctx context.Context, region route.Region) ([]*brunnel.Brunnel, error) {
	elements, err := c.queryElements(ctx, region)
	if err != nil {
		return nil, err
	}

	candidates := make([]*brunnel.Brunnel, 0, len(elements))
	for _, el := range elements {
		b := toBrunnel(el)
		if b != nil {
			candidates = append(candidates, b)
		}
	}

	c.logger.Info("overpass query complete",
		zap.Int("elements", len(elements)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func (c *Client) queryElements(ctx context.Context, region route.Region) ([]element, error) {
	key := cacheKey(region)
	if c.cache != nil {
		var cached []element
		if hit, err := c.cache.Get(key, &cached); err == nil && hit {
			c.logger.Debug("overpass cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	query := buildQuery(region)
	body, err := c.post(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(key, resp.Elements, c.cacheTTL, "overpass"); err != nil {
			c.logger.Warn("failed to cache overpass response", zap.Error(err))
		}
	}
	return resp.Elements, nil
}

// post sends the query, retrying with backoff on rate limiting and server
// errors.
func (c *Client) post(ctx context.Context, query string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 2 * time.Second
			c.logger.Debug("retrying overpass query",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.postOnce(ctx, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("overpass query failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) postOnce(ctx context.Context, query string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to reach overpass: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("overpass returned HTTP %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("overpass returned HTTP %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read overpass response: %w", err)
	}
	return body, false, nil
}

// buildQuery requests all ways tagged as bridges or tunnels within the
// bounding box, with full geometry and node references.
func buildQuery(region route.Region) string {
	bbox := fmt.Sprintf("%.7f,%.7f,%.7f,%.7f",
		region.MinLat, region.MinLon, region.MaxLat, region.MaxLon)
	return fmt.Sprintf(`[out:json][timeout:60];
(
  way["bridge"]["bridge"!="no"](%s);
  way["tunnel"]["tunnel"!="no"](%s);
);
out geom;
`, bbox, bbox)
}

func cacheKey(region route.Region) string {
	return fmt.Sprintf("overpass:%.7f,%.7f,%.7f,%.7f",
		region.MinLat, region.MinLon, region.MaxLat, region.MaxLon)
}

// toBrunnel converts an Overpass way into a candidate, or nil for elements
// that are not usable crossings.
func toBrunnel(el element) *brunnel.Brunnel {
	if el.Type != "way" || len(el.Geometry) == 0 {
		return nil
	}

	var kind brunnel.Kind
	switch {
	case isAffirmative(el.Tags["bridge"]):
		kind = brunnel.KindBridge
	case isAffirmative(el.Tags["tunnel"]):
		kind = brunnel.KindTunnel
	default:
		return nil
	}

	points := make([]geo.Point, len(el.Geometry))
	for i, g := range el.Geometry {
		points[i] = geo.Point{Latitude: g.Lat, Longitude: g.Lon}
	}

	return &brunnel.Brunnel{
		ID:      strconv.FormatInt(el.ID, 10),
		Kind:    kind,
		Name:    el.Tags["name"],
		Points:  points,
		Tags:    el.Tags,
		NodeIDs: el.Nodes,
	}
}

// isAffirmative reports whether an OSM tag value marks the feature as a real
// bridge/tunnel. Anything but an explicit "no" counts; OSM uses values like
// "yes", "viaduct", "culvert" and "building_passage".
func isAffirmative(value string) bool {
	return value != "" && value != "no"
}
