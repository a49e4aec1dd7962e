package tmdb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/mediar/internal/metadata"
)

// Provider adapts a Client to metadata.Provider.
type Provider struct {
	client *Client
}

var _ metadata.Provider = (*Provider)(nil)

// NewProvider wraps client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Search queries TV and movie search concurrently. TV results come first;
// ordering within each kind is TMDB's.
func (p *Provider) Search(ctx context.Context, query string) ([]metadata.SearchResult, error) {
	var tv []TVResult
	var movies []MovieResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tv, err = p.client.SearchTV(gctx, query)
		return err
	})
	g.Go(func() (err error) {
		movies, err = p.client.SearchMovie(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]metadata.SearchResult, 0, len(tv)+len(movies))
	for _, r := range tv {
		results = append(results, metadata.SearchResult{
			ID:         r.ID,
			Kind:       metadata.KindTV,
			Name:       r.Name,
			Language:   r.OriginalLanguage,
			Popularity: r.Popularity,
			Year:       yearOf(r.FirstAirDate),
		})
	}
	for _, r := range movies {
		results = append(results, metadata.SearchResult{
			ID:         r.ID,
			Kind:       metadata.KindMovie,
			Name:       r.Title,
			Language:   r.OriginalLanguage,
			Popularity: r.Popularity,
			Year:       yearOf(r.ReleaseDate),
		})
	}
	return results, nil
}

// GetShow fetches a series with every season and builds a metadata.Show.
func (p *Provider) GetShow(ctx context.Context, id int64) (*metadata.Show, error) {
	show, err := p.client.GetShow(ctx, id)
	if err != nil {
		return nil, err
	}

	var episodes []metadata.Episode
	for _, season := range show.Seasons {
		for _, ep := range season.Episodes {
			episodes = append(episodes, metadata.Episode{
				Season:  ep.SeasonNumber,
				Number:  ep.EpisodeNumber,
				Title:   ep.Name,
				AirDate: ep.AirDate,
			})
		}
	}

	s, err := metadata.NewShow(show.Series.ID, show.Series.Name, show.Series.Year(), episodes)
	if err != nil {
		return nil, fmt.Errorf("tv %d: %w", id, err)
	}
	return s, nil
}

// GetMovie fetches a movie.
func (p *Provider) GetMovie(ctx context.Context, id int64) (*metadata.Movie, error) {
	m, err := p.client.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return &metadata.Movie{ID: m.ID, Title: m.Title, Year: m.Year()}, nil
}
