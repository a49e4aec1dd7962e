package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org"
	defaultCacheTTL = 24 * time.Hour

	// seasonFetchLimit bounds concurrent season requests for one show.
	seasonFetchLimit = 4
)

var (
	// ErrNotFound is returned when the requested record doesn't exist in TMDB.
	ErrNotFound = errors.New("not found in TMDB")

	// ErrUnauthorized is returned when TMDB rejects the API token.
	ErrUnauthorized = errors.New("TMDB rejected the API token")
)

// Client is a TMDB v3 API client using bearer-token auth.
type Client struct {
	token      string
	baseURL    string
	language   string
	httpClient *http.Client
	log        *slog.Logger

	cacheTTL time.Duration
	movies   *cache[*Movie]
	series   *cache[*TVSeries]
	seasons  *cache[*Season]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the in-memory cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage requests localized titles ("en-US", "de-DE").
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new TMDB client.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "tmdb")
	c.movies = newCache[*Movie](c.cacheTTL)
	c.series = newCache[*TVSeries](c.cacheTTL)
	c.seasons = newCache[*Season](c.cacheTTL)
	return c
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	key := strconv.FormatInt(id, 10)
	if movie, ok := c.movies.get(key); ok {
		return movie, nil
	}

	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &movie); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	c.movies.set(key, &movie)
	return &movie, nil
}

// GetTV fetches a series record (without episodes) by TMDB ID.
func (c *Client) GetTV(ctx context.Context, id int64) (*TVSeries, error) {
	key := strconv.FormatInt(id, 10)
	if s, ok := c.series.get(key); ok {
		return s, nil
	}

	var series TVSeries
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &series); err != nil {
		return nil, fmt.Errorf("tv %d: %w", id, err)
	}
	c.series.set(key, &series)
	return &series, nil
}

// GetSeason fetches one season of a series with its episodes.
func (c *Client) GetSeason(ctx context.Context, id int64, season int) (*Season, error) {
	key := fmt.Sprintf("%d/%d", id, season)
	if s, ok := c.seasons.get(key); ok {
		return s, nil
	}

	var s Season
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", id, season), nil, &s); err != nil {
		return nil, fmt.Errorf("tv %d season %d: %w", id, season, err)
	}
	// Some season payloads omit season_number on episodes.
	for i := range s.Episodes {
		if s.Episodes[i].SeasonNumber == 0 {
			s.Episodes[i].SeasonNumber = s.SeasonNumber
		}
	}
	c.seasons.set(key, &s)
	return &s, nil
}

// GetShow fetches a series and all of its seasons. Seasons are requested
// concurrently; the first failure cancels the rest.
func (c *Client) GetShow(ctx context.Context, id int64) (*Show, error) {
	series, err := c.GetTV(ctx, id)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, 0, len(series.Seasons))
	for _, s := range series.Seasons {
		numbers = append(numbers, s.SeasonNumber)
	}
	if len(numbers) == 0 {
		for n := 1; n <= series.NumberOfSeasons; n++ {
			numbers = append(numbers, n)
		}
	}

	seasons := make([]Season, len(numbers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seasonFetchLimit)
	for i, n := range numbers {
		g.Go(func() error {
			s, err := c.GetSeason(gctx, id, n)
			if err != nil {
				return err
			}
			seasons[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.log.Debug("fetched show", "id", id, "name", series.Name, "seasons", len(seasons))
	return &Show{Series: series, Seasons: seasons}, nil
}

// SearchTV searches series by name. Only the first result page is returned.
func (c *Client) SearchTV(ctx context.Context, query string) ([]TVResult, error) {
	var resp searchResponse[TVResult]
	if err := c.get(ctx, "/search/tv", url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("search tv %q: %w", query, err)
	}
	return resp.Results, nil
}

// SearchMovie searches movies by title. Only the first result page is returned.
func (c *Client) SearchMovie(ctx context.Context, query string) ([]MovieResult, error) {
	var resp searchResponse[MovieResult]
	if err := c.get(ctx, "/search/movie", url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("search movie %q: %w", query, err)
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" {
		query.Set("language", c.language)
	}

	u := c.baseURL + "/3" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("request", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		var apiErr errorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("TMDB API error: %s: %s", resp.Status, apiErr.StatusMessage)
		}
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
