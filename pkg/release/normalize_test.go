package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix", "the matrix"},
		{"Fast & Furious", "fast and furious"},
		{"Amélie", "amelie"},
		{"Spider-Man: No Way Home", "spider man no way home"},
		{"Grey's Anatomy", "greys anatomy"},
		{"  Extra   Spaces  ", "extra spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix", "matrix"},
		{"A Beautiful Mind", "beautiful mind"},
		{"An American Werewolf", "american werewolf"},
		{"Léon: The Professional", "leon professional"},
		{"Rocky II", "rocky 2"},
		{"Star Wars: Episode IV", "star wars episode 4"},
		{"I Robot", "i robot"},
		{"SPY x FAMILY", "spy x family"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Law and Order", SearchQuery("Law  &  Order"))
	assert.Equal(t, "Show Name", SearchQuery(" Show Name "))
}
