package zippopotam

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
	provider       = "zippopotam"
	defaultBaseURL = "https://api.zippopotam.us"
	defaultTimeout = 5 * time.Second
)

// Config holds the postal-code lookup settings.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 = unlimited
	Burst             int
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client looks up US postal codes.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
}

type response struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// New creates a postal-code lookup client.
func New(cfg *Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		http:      cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		logger:    cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// LookupZip returns the first place of a five-digit zip. It returns
// domain.ErrLocationNotFound when the service does not know the zip; any
// other error is transient.
func (c *Client) LookupZip(ctx context.Context, zip5 string) (geo.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		c.count("error")
		return geo.Point{}, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	p, err := c.lookup(ctx, zip5)
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

func (c *Client) lookup(ctx context.Context, zip5 string) (geo.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/us/"+url.PathEscape(zip5), http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("zip lookup %s: %w", zip5, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return geo.Point{}, fmt.Errorf("zip %s: %w", zip5, domain.ErrLocationNotFound)
	case resp.StatusCode != http.StatusOK:
		c.logger.Debug("zip lookup failed", zap.String("zip", zip5), zap.Int("status", resp.StatusCode))
		return geo.Point{}, fmt.Errorf("zip lookup %s: unexpected status %d", zip5, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Point{}, fmt.Errorf("decode zip %s: %w", zip5, err)
	}
	if len(body.Places) == 0 {
		return geo.Point{}, fmt.Errorf("zip %s: %w", zip5, domain.ErrLocationNotFound)
	}

	place := body.Places[0]
	lat, err := strconv.ParseFloat(strings.TrimSpace(place.Latitude), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse latitude for %s: %w", zip5, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(place.Longitude), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse longitude for %s: %w", zip5, err)
	}
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("zip %s: %w", zip5, err)
	}
	return p, nil
}

func (c *Client) count(status string) {
	metrics.GeocoderRequestsTotal.WithLabelValues(provider, status).Inc()
}
