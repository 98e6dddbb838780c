// Package geocode resolves pantry addresses to coordinates with Nominatim.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"spca-maps/internal/models"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "spca_maps"
)

// ErrUnavailable is returned once every attempt at a lookup has failed.
var ErrUnavailable = errors.New("geocode: service unavailable")

// Client is a rate-limited Nominatim search client. Timeouts, 429 and 5xx
// responses are retried at a fixed interval.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	attempts   uint64
	retryWait  time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithInterval sets the minimum spacing between requests.
func WithInterval(d time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithRetry sets the total number of attempts per address and the wait between them.
func WithRetry(attempts uint64, wait time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.retryWait = wait
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		attempts:   5,
		retryWait:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best match for address, or nil when Nominatim has none.
func (c *Client) Geocode(ctx context.Context, address string) (*models.LatLng, error) {
	var (
		found     *models.LatLng
		permanent bool
	)
	op := func() error {
		p, retry, err := c.search(ctx, address)
		if err != nil {
			if !retry {
				permanent = true
				return backoff.Permanent(err)
			}
			return err
		}
		found = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryWait), c.attempts-1),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		if permanent || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, address, err)
	}
	return found, nil
}

// search performs one lookup. retry reports whether a failure is transient.
func (c *Client) search(ctx context.Context, address string) (p *models.LatLng, retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		var netErr net.Error
		timeout := errors.As(err, &netErr) && netErr.Timeout()
		return nil, timeout, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("geocode: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("geocode: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("geocode: read response: %w", err)
	}
	var results []searchResult
	if err := sonic.Unmarshal(body, &results); err != nil {
		return nil, false, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, false, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, false, fmt.Errorf("geocode: bad coordinates %q,%q", results[0].Lat, results[0].Lon)
	}
	return &models.LatLng{Lat: lat, Lng: lon}, false, nil
}
