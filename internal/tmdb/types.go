// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie represents TMDB movie metadata.
type Movie struct {
	ID               int64   `json:"id"`
	IMDBID           string  `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title            string  `json:"title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"` // "2024-03-01"
	Popularity       float64 `json:"popularity"`
	Runtime          int     `json:"runtime"` // minutes
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// TVSeries is the top-level record for a show, without episodes.
type TVSeries struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	OriginalLanguage string          `json:"original_language"`
	Overview         string          `json:"overview"`
	FirstAirDate     string          `json:"first_air_date"`
	NumberOfEpisodes int             `json:"number_of_episodes"`
	NumberOfSeasons  int             `json:"number_of_seasons"`
	Seasons          []SeasonSummary `json:"seasons"` // Includes season 0 when the show has specials
}

// Year extracts the year from FirstAirDate.
func (s *TVSeries) Year() int {
	return yearOf(s.FirstAirDate)
}

// SeasonSummary is a season entry embedded in TVSeries.
type SeasonSummary struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
}

// Season is one season with its episodes.
type Season struct {
	ID           int64     `json:"id"`
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	AirDate      string    `json:"air_date"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is a single episode within a Season.
type Episode struct {
	ID            int64  `json:"id"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
}

// Show is a series together with every fetched season.
type Show struct {
	Series  *TVSeries
	Seasons []Season
}

// TVResult is one hit from /search/tv.
type TVResult struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
}

// MovieResult is one hit from /search/movie.
type MovieResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
}

type searchResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// yearOf parses the year out of a "2006-01-02" date; 0 when absent.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
