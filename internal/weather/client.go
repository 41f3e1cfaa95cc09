package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches five-day forecasts from the OpenWeatherMap API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	entries    int
	cache      Cache
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithBaseURL(u string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(u, "/")
	}
}

// WithEntries sets how many forecast points are returned.
func WithEntries(n int) Option {
	return func(cl *Client) {
		cl.entries = n
	}
}

func WithCache(c Cache) Option {
	return func(cl *Client) {
		cl.cache = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.openweathermap.org",
		apiKey:     apiKey,
		entries:    5,
		cache:      NopCache{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forecast returns the first forecast entries for city.
func (c *Client) Forecast(ctx context.Context, city string) ([]Entry, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	if cached, ok, err := c.cache.Get(ctx, city); err != nil {
		c.logger.Warn("Forecast cache read failed", "city", city, "error", err)
	} else if ok {
		c.logger.Debug("Forecast cache hit", "city", city)
		return cached, nil
	}

	entries, err := c.fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return entries, nil
	}
	if err := c.cache.Set(ctx, city, entries); err != nil {
		c.logger.Warn("Forecast cache write failed", "city", city, "error", err)
	}
	return entries, nil
}

func (c *Client) fetch(ctx context.Context, city string) ([]Entry, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	endpoint := c.baseURL + "/data/2.5/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("forecast API returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("forecast API returned %d", resp.StatusCode)
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if data.List == nil {
		return nil, fmt.Errorf("%w: response has no forecast list", ErrMalformedResponse)
	}

	list := *data.List
	n := min(c.entries, len(list))
	entries := make([]Entry, 0, n)
	for _, item := range list[:n] {
		e, err := item.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
