package tvdb

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/vmunix/mediar/internal/metadata"
)

// ErrMoviesUnsupported is returned by GetMovie; TVDB is used for series only.
var ErrMoviesUnsupported = errors.New("TVDB provider does not serve movies")

// Provider adapts a Client to metadata.Provider.
type Provider struct {
	client *Client
}

var _ metadata.Provider = (*Provider)(nil)

// NewProvider wraps client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Search returns series results in TVDB order. Languages are mapped to
// ISO 639-1 where a two-letter code exists.
func (p *Provider) Search(ctx context.Context, query string) ([]metadata.SearchResult, error) {
	hits, err := p.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]metadata.SearchResult, 0, len(hits))
	for _, h := range hits {
		id := h.ID()
		if id == 0 {
			continue
		}
		results = append(results, metadata.SearchResult{
			ID:       id,
			Kind:     metadata.KindTV,
			Name:     h.Name,
			Language: shortLanguage(h.PrimaryLanguage),
			Year:     yearOf(h.Year),
		})
	}
	return results, nil
}

// GetShow fetches the series record and its episode list concurrently.
// Episodes numbered 0 are dropped; of repeated numbers the first is kept.
func (p *Provider) GetShow(ctx context.Context, id int64) (*metadata.Show, error) {
	var (
		series   *Series
		episodes []Episode
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		series, err = p.client.GetSeries(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		episodes, err = p.client.GetEpisodes(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type key struct{ season, number int }
	seen := make(map[key]bool, len(episodes))
	eps := make([]metadata.Episode, 0, len(episodes))
	for _, e := range episodes {
		k := key{e.SeasonNumber, e.Number}
		if e.Number < 1 || e.SeasonNumber < 0 || seen[k] {
			continue
		}
		seen[k] = true
		eps = append(eps, metadata.Episode{
			Season:  e.SeasonNumber,
			Number:  e.Number,
			Title:   e.Name,
			AirDate: e.Aired,
		})
	}

	show, err := metadata.NewShow(series.ID, series.Name, series.Year(), eps)
	if err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}
	return show, nil
}

// GetMovie always fails with ErrMoviesUnsupported.
func (p *Provider) GetMovie(_ context.Context, id int64) (*metadata.Movie, error) {
	return nil, fmt.Errorf("movie %d: %w", id, ErrMoviesUnsupported)
}

// shortLanguage turns "eng" into "en". Unknown codes pass through.
func shortLanguage(code string) string {
	if code == "" {
		return ""
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return code
	}
	return base.String()
}
