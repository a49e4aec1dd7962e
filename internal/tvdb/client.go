// Package tvdb is a TheTVDB v4 client and a series-only metadata provider.
package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://api4.thetvdb.com/v4"

	// maxEpisodePages bounds pagination of one series' episode list.
	maxEpisodePages = 100
)

var (
	// ErrNotFound is returned when the series doesn't exist in TVDB.
	ErrNotFound = errors.New("not found in TVDB")

	// ErrUnauthorized is returned when TVDB rejects the API key.
	ErrUnauthorized = errors.New("TVDB rejected the API key")

	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("TVDB rate limit exceeded")
)

// Client is a TVDB v4 client. The API key is exchanged for a JWT on first
// use; the token is refreshed once when a request comes back 401.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu    sync.Mutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a TVDB client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "tvdb")
	return c
}

// Search finds series by name.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	q := url.Values{"query": {query}, "type": {"series"}}
	if _, err := c.get(ctx, "/search?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	c.log.Debug("search completed", "query", query, "results", len(results))
	return results, nil
}

// GetSeries fetches the series record.
func (c *Client) GetSeries(ctx context.Context, id int64) (*Series, error) {
	var s Series
	if _, err := c.get(ctx, fmt.Sprintf("/series/%d", id), &s); err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}
	return &s, nil
}

// GetEpisodes fetches the series' default episode order, following pages.
func (c *Client) GetEpisodes(ctx context.Context, id int64) ([]Episode, error) {
	var all []Episode
	for page := 0; page < maxEpisodePages; page++ {
		var data episodePage
		next, err := c.get(ctx, fmt.Sprintf("/series/%d/episodes/default?page=%d", id, page), &data)
		if err != nil {
			return nil, fmt.Errorf("series %d episodes: %w", id, err)
		}
		all = append(all, data.Episodes...)
		if !next {
			c.log.Debug("fetched episodes", "series_id", id, "count", len(all), "pages", page+1)
			return all, nil
		}
	}
	c.log.Warn("hit pagination limit", "series_id", id, "pages", maxEpisodePages)
	return all, nil
}

// get decodes the data field of an authenticated GET into out and reports
// whether another page follows.
func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return false, err
	}

	resp, err := c.do(ctx, path, token)
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		c.log.Debug("token rejected, logging in again")
		c.clearToken(token)
		if token, err = c.ensureToken(ctx); err != nil {
			return false, err
		}
		if resp, err = c.do(ctx, path, token); err != nil {
			return false, err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return false, err
	}

	env := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Links.Next != nil && *env.Links.Next != "", nil
}

func (c *Client) do(ctx context.Context, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	c.log.Debug("request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// ensureToken returns the cached JWT, logging in when there is none.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return "", fmt.Errorf("marshal login body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	var env envelope[loginData]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if env.Data.Token == "" {
		return "", errors.New("login response missing token")
	}
	c.token = env.Data.Token
	c.log.Debug("authenticated")
	return c.token, nil
}

// clearToken drops token unless another request already replaced it.
func (c *Client) clearToken(token string) {
	c.mu.Lock()
	if c.token == token {
		c.token = ""
	}
	c.mu.Unlock()
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
