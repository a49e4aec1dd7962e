// Package metadata defines the canonical show and movie records that local
// files are matched against, and caches provider lookups in SQLite.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/vmunix/mediar/pkg/release"
)

// Kind distinguishes TV shows from movies.
type Kind string

const (
	KindTV    Kind = "tv"
	KindMovie Kind = "movie"
)

// Record is either a *Show or a *Movie. The set is closed; callers switch
// over the two concrete types.
type Record interface {
	Kind() Kind
	// Label is the human-readable "Title (Year)" form.
	Label() string
	isRecord()
}

// Episode is one entry in a show's episode list. Season 0 holds specials.
type Episode struct {
	Season  int    `json:"season"`
	Number  int    `json:"episode"`
	Title   string `json:"title"`
	AirDate string `json:"air_date,omitempty"` // "2008-01-20"
}

// ID renders the episode as S01E02.
func (e Episode) ID() string {
	return release.EpisodeID(e.Season, e.Number)
}

// IsSpecial reports whether the episode belongs to season 0.
func (e Episode) IsSpecial() bool {
	return e.Season == 0
}

type episodeKey struct{ season, number int }

// Show is a TV series with its complete, ordered episode list.
// A Show is immutable once built by NewShow.
type Show struct {
	ID    int64
	Title string
	Year  int // First-air year; 0 when unknown

	episodes []Episode
	index    map[episodeKey]int
}

// NewShow validates and indexes an episode list. Episodes are sorted by
// season then number; a repeated season/episode pair is an error.
func NewShow(id int64, title string, year int, episodes []Episode) (*Show, error) {
	sorted := slices.Clone(episodes)
	slices.SortStableFunc(sorted, func(a, b Episode) int {
		if a.Season != b.Season {
			return a.Season - b.Season
		}
		return a.Number - b.Number
	})

	index := make(map[episodeKey]int, len(sorted))
	for i, ep := range sorted {
		if ep.Season < 0 || ep.Number < 1 {
			return nil, fmt.Errorf("%w: %s %s", ErrInvalidEpisode, title, ep.ID())
		}
		k := episodeKey{ep.Season, ep.Number}
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateEpisode, title, ep.ID())
		}
		index[k] = i
	}

	return &Show{ID: id, Title: title, Year: year, episodes: sorted, index: index}, nil
}

func (s *Show) Kind() Kind    { return KindTV }
func (s *Show) Label() string { return label(s.Title, s.Year) }
func (s *Show) isRecord()     {}

// Episodes returns a copy of the ordered episode list.
func (s *Show) Episodes() []Episode {
	return slices.Clone(s.episodes)
}

// Episode looks up a season/episode pair.
func (s *Show) Episode(season, number int) (Episode, bool) {
	i, ok := s.index[episodeKey{season, number}]
	if !ok {
		return Episode{}, false
	}
	return s.episodes[i], true
}

// RegularEpisodes returns every non-special episode in season/number order.
func (s *Show) RegularEpisodes() []Episode {
	var out []Episode
	for _, ep := range s.episodes {
		if !ep.IsSpecial() {
			out = append(out, ep)
		}
	}
	return out
}

// AbsoluteEpisode resolves an absolute episode number (1-based, counted
// across all regular seasons). It returns false unless every regular season
// numbers its episodes 1..k with no gaps, since otherwise the running count
// does not line up with what a release group would have used.
func (s *Show) AbsoluteEpisode(n int) (Episode, bool) {
	regular := s.RegularEpisodes()
	if n < 1 || n > len(regular) {
		return Episode{}, false
	}

	next := map[int]int{}
	for _, ep := range regular {
		want := next[ep.Season] + 1
		if ep.Number != want {
			return Episode{}, false
		}
		next[ep.Season] = want
	}
	return regular[n-1], true
}

type showJSON struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Year     int       `json:"year"`
	Episodes []Episode `json:"episodes"`
}

// MarshalJSON encodes the show with its episode list.
func (s *Show) MarshalJSON() ([]byte, error) {
	return json.Marshal(showJSON{ID: s.ID, Title: s.Title, Year: s.Year, Episodes: s.episodes})
}

// UnmarshalJSON decodes and re-validates a show.
func (s *Show) UnmarshalJSON(data []byte) error {
	var raw showJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewShow(raw.ID, raw.Title, raw.Year, raw.Episodes)
	if err != nil {
		return err
	}
	*s = *built
	return nil
}

// Movie is a single film.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"` // 0 when unknown
}

func (m *Movie) Kind() Kind    { return KindMovie }
func (m *Movie) Label() string { return label(m.Title, m.Year) }
func (m *Movie) isRecord()     {}

func label(title string, year int) string {
	if year == 0 {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, year)
}

// SearchResult is one candidate returned by a provider search.
type SearchResult struct {
	ID         int64   `json:"id"`
	Kind       Kind    `json:"kind"`
	Name       string  `json:"name"`
	Language   string  `json:"language"` // Original language, ISO 639-1
	Popularity float64 `json:"popularity"`
	Year       int     `json:"year"`
}

// Provider resolves metadata records from an external source.
//
//go:generate mockgen -destination=mocks/provider.go -package=mocks github.com/vmunix/mediar/internal/metadata Provider
type Provider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	GetShow(ctx context.Context, id int64) (*Show, error)
	GetMovie(ctx context.Context, id int64) (*Movie, error)
}
