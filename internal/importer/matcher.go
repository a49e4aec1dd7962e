package importer

import (
	"fmt"

	"github.com/vmunix/mediar/internal/metadata"
)

// Unmatched reasons.
const (
	ReasonCannotDetermine = "cannot determine episode"
	ReasonSample          = "sample file"
)

// MatchResult pairs a source file with the record it resolved to.
// Exactly one of Episode or Movie is set for a match; Reason is set otherwise.
type MatchResult struct {
	File    *SourceFile
	Episode *metadata.Episode
	Movie   *metadata.Movie
	Reason  string
}

// Matched reports whether the file resolved.
func (m MatchResult) Matched() bool {
	return m.Episode != nil || m.Movie != nil
}

// Match dispatches on the record type.
func Match(record metadata.Record, files []*SourceFile) []MatchResult {
	switch r := record.(type) {
	case *metadata.Show:
		return MatchShow(r, files)
	case *metadata.Movie:
		return MatchMovie(r, files)
	default:
		panic(fmt.Sprintf("importer: unknown metadata record %T", record))
	}
}

// MatchShow resolves each file to an episode of show. Files with a season
// and episode are looked up directly. Files with only an episode number are
// tried as absolute numbers across the regular seasons. Several files may
// resolve to the same episode; the planner reports the collision.
func MatchShow(show *metadata.Show, files []*SourceFile) []MatchResult {
	results := make([]MatchResult, len(files))
	for i, f := range files {
		results[i] = MatchResult{File: f}
		if f.Sample {
			results[i].Reason = ReasonSample
			continue
		}
		t := f.Tokens

		switch {
		case t.HasEpisodeID():
			ep, ok := show.Episode(*t.Season, *t.Episode)
			if !ok {
				results[i].Reason = fmt.Sprintf("no episode %s in show metadata", t.EpisodeID())
				continue
			}
			results[i].Episode = &ep
		case t.IsEpisodeOnly():
			ep, ok := show.AbsoluteEpisode(*t.Episode)
			if !ok {
				results[i].Reason = ReasonCannotDetermine
				continue
			}
			results[i].Episode = &ep
		default:
			results[i].Reason = ReasonCannotDetermine
			continue
		}
		f.Episode = results[i].Episode
	}
	return results
}

// MatchMovie resolves every file except samples to movie.
func MatchMovie(movie *metadata.Movie, files []*SourceFile) []MatchResult {
	results := make([]MatchResult, len(files))
	for i, f := range files {
		if f.Sample {
			results[i] = MatchResult{File: f, Reason: ReasonSample}
			continue
		}
		results[i] = MatchResult{File: f, Movie: movie}
	}
	return results
}
