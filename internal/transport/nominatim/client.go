package nominatim

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

const (
	provider         = "nominatim"
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "talentdex/1.0"
	defaultTimeout   = 5 * time.Second
)

// Config holds the place lookup settings. Nominatim's usage policy requires
// an identifying User-Agent and at most one request per second.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client resolves US city names to coordinates.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// New creates a place lookup client. RequestsPerSecond defaults to 1.
func New(cfg *Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	rps, burst := cfg.RequestsPerSecond, cfg.Burst
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// LookupPlace returns the best US match for city (and state when given).
// It returns domain.ErrLocationNotFound when there is no match.
func (c *Client) LookupPlace(ctx context.Context, city, state string) (geo.Point, error) {
	query := strings.TrimSpace(city)
	if query == "" {
		return geo.Point{}, fmt.Errorf("empty city: %w", domain.ErrLocationNotFound)
	}
	if state = strings.TrimSpace(state); state != "" {
		query += ", " + state
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		c.count("error")
		return geo.Point{}, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	p, err := c.search(ctx, query)
	metrics.GeocoderRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.count("found")
	case errors.Is(err, domain.ErrLocationNotFound):
		c.count("not_found")
	default:
		c.count("error")
	}
	return p, err
}

func (c *Client) search(ctx context.Context, query string) (geo.Point, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("place lookup %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("place lookup failed", zap.String("query", query), zap.Int("status", resp.StatusCode))
		return geo.Point{}, fmt.Errorf("place lookup %q: unexpected status %d", query, resp.StatusCode)
	}

	var results []place
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, fmt.Errorf("decode place %q: %w", query, err)
	}
	if len(results) == 0 {
		return geo.Point{}, fmt.Errorf("place %q: %w", query, domain.ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse latitude for %q: %w", query, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse longitude for %q: %w", query, err)
	}
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("place %q: %w", query, err)
	}
	return p, nil
}

func (c *Client) count(status string) {
	metrics.GeocoderRequestsTotal.WithLabelValues(provider, status).Inc()
}
