package tvdb

import (
	"strconv"
	"strings"
)

// Series is a TVDB series record.
type Series struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	FirstAired string `json:"firstAired"` // "2008-01-20"
	Status     struct {
		Name string `json:"name"` // "Continuing", "Ended"
	} `json:"status"`
	OriginalLanguage string `json:"originalLanguage"` // ISO 639-2, "eng"
}

// Year is the first-aired year, 0 when unknown.
func (s *Series) Year() int {
	return yearOf(s.FirstAired)
}

// Episode is one entry of a series' default (aired) episode order.
type Episode struct {
	ID           int64  `json:"id"`
	SeasonNumber int    `json:"seasonNumber"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	Aired        string `json:"aired"`
}

// SearchResult is one series search hit. TVDB returns the ID and year as strings.
type SearchResult struct {
	TVDBID          string `json:"tvdb_id"`
	ObjectID        string `json:"objectID"` // "series-81189"
	Name            string `json:"name"`
	Year            string `json:"year"`
	PrimaryLanguage string `json:"primary_language"`
}

// ID resolves the numeric series ID, falling back to the object ID.
func (r SearchResult) ID() int64 {
	if id, err := strconv.ParseInt(r.TVDBID, 10, 64); err == nil && id > 0 {
		return id
	}
	if rest, ok := strings.CutPrefix(r.ObjectID, "series-"); ok {
		id, _ := strconv.ParseInt(rest, 10, 64)
		return id
	}
	return 0
}

// envelope is the wrapper of every v4 response.
type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
	Links  struct {
		Next *string `json:"next"`
	} `json:"links"`
}

type loginData struct {
	Token string `json:"token"`
}

type episodePage struct {
	Series   Series    `json:"series"`
	Episodes []Episode `json:"episodes"`
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(date[:4])
	return y
}

