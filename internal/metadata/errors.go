package metadata

import "errors"

var (
	// ErrDuplicateEpisode indicates a show listed the same season/episode twice.
	ErrDuplicateEpisode = errors.New("duplicate episode")

	// ErrInvalidEpisode indicates a negative season or a non-positive episode number.
	ErrInvalidEpisode = errors.New("invalid episode number")

	// ErrEmptyRecord indicates a provider answered without error but with no record.
	ErrEmptyRecord = errors.New("provider returned no record")
)
