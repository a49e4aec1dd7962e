// Package release tokenizes media filenames into season, episode and title fragments.
package release

import "fmt"

// Tokens is the result of tokenizing a single filename.
// Season and Episode are nil when the filename does not carry them.
// An Episode without a Season is an episode-only (possibly absolute) number.
type Tokens struct {
	Title   string // Normalized title fragment
	Season  *int
	Episode *int
	Year    int    // 0 when no year was found
	Rule    string // Name of the rule that matched; empty when none did
}

// HasEpisodeID reports whether both season and episode were recovered.
func (t Tokens) HasEpisodeID() bool {
	return t.Season != nil && t.Episode != nil
}

// IsEpisodeOnly reports whether only an episode number was recovered.
func (t Tokens) IsEpisodeOnly() bool {
	return t.Season == nil && t.Episode != nil
}

// EpisodeID renders the season/episode pair as S01E02.
// Returns an empty string unless both numbers are present.
func (t Tokens) EpisodeID() string {
	if !t.HasEpisodeID() {
		return ""
	}
	return EpisodeID(*t.Season, *t.Episode)
}

// EpisodeID formats a season/episode pair as S01E02.
func EpisodeID(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

func intPtr(n int) *int {
	return &n
}
