package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var reNumber = regexp.MustCompile(`\b(\d+)\b`)

// Confidence buckets a title similarity score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.70
	ConfidenceLow                      // Score >= 0.70
	ConfidenceMedium                   // Score >= 0.85
	ConfidenceHigh                     // Score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// ConfidenceOf maps a similarity score to its bucket.
func ConfidenceOf(score float64) Confidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// TitleMatch is the best candidate picked by [BestTitle].
type TitleMatch struct {
	Index      int // Index into the candidate slice; -1 when nothing matched
	Title      string
	Score      float64
	Confidence Confidence
}

// Similarity scores two titles between 0 and 1 using Jaro-Winkler over their
// cleaned forms. Sequence numbers must agree: "Cars 2" against "Cars" or
// "Cars 3" is penalized.
func Similarity(a, b string) float64 {
	ca, cb := CleanTitle(a), CleanTitle(b)
	if ca == "" || cb == "" {
		return 0
	}
	score := float64(edlib.JaroWinklerSimilarity(ca, cb))
	return adjustForNumbers(score, reNumber.FindAllString(ca, -1), reNumber.FindAllString(cb, -1))
}

// BestTitle returns the candidate most similar to title. Candidates scoring
// below the low-confidence threshold never match.
func BestTitle(title string, candidates []string) TitleMatch {
	best := TitleMatch{Index: -1}
	for i, c := range candidates {
		if score := Similarity(title, c); score > best.Score {
			best = TitleMatch{Index: i, Title: c, Score: score}
		}
	}
	best.Confidence = ConfidenceOf(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Index, best.Title = -1, ""
	}
	return best
}

func adjustForNumbers(score float64, want, got []string) float64 {
	if len(want) == 0 {
		return score
	}
	if len(got) == 0 {
		return score * 0.85
	}
	seen := make(map[string]bool, len(got))
	for _, n := range got {
		seen[n] = true
	}
	for _, n := range want {
		if seen[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
