package release

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one filename naming convention. Rules are evaluated in order by
// [Parse]; the first rule that matches wins.
type Rule struct {
	Name  string
	Match func(s string) (Hit, bool)
}

// Hit locates the season/episode token a rule found in a normalized stem.
type Hit struct {
	Season  *int
	Episode *int
	Start   int // Byte offset where the token begins
	End     int // Byte offset just past the token
}

// extractFunc turns regex submatches into season/episode numbers.
type extractFunc func(m []string) (season, episode *int, ok bool)

// regexRule builds a Rule that tries every match of re in turn until
// extract accepts one.
func regexRule(name string, re *regexp.Regexp, extract extractFunc) Rule {
	return Rule{
		Name: name,
		Match: func(s string) (Hit, bool) {
			for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
				m := make([]string, len(loc)/2)
				for i := range m {
					if loc[2*i] >= 0 {
						m[i] = s[loc[2*i]:loc[2*i+1]]
					}
				}
				season, episode, ok := extract(m)
				if !ok {
					continue
				}
				return Hit{Season: season, Episode: episode, Start: loc[0], End: loc[1]}, true
			}
			return Hit{}, false
		},
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// Rule patterns run against the stem with '.' and '_' already turned into spaces.
var (
	reSxxEyy = regexp.MustCompile(
		`(?i)(?:^|[^a-z0-9])s(\d{1,3})[\s-]*e(\d{1,4})(?:[^0-9]|$)`)

	// The season side is limited to two digits and must not follow another
	// digit, which keeps resolutions like 1920x1080 out.
	reNxNN = regexp.MustCompile(
		`(?i)(?:^|[^a-z0-9])(\d{1,2})x(\d{1,3})(?:[^a-z0-9]|$)`)

	reSeasonEpisodeWords = regexp.MustCompile(
		`(?i)(?:^|[^a-z0-9])season\s*(\d{1,3})[\s-]*episode\s*(\d{1,4})(?:[^0-9]|$)`)

	reEpisodeKeyword = regexp.MustCompile(
		`(?i)(?:^|[^a-z0-9])(?:episode|ep|e)\s*(\d{1,4})(?:[^a-z0-9]|$)`)

	reDashNumber = regexp.MustCompile(
		`(?i)(?:^|\s)-\s*(\d{1,4})(?:v\d+)?(?:\s|$)`)

	reLeadingNumber = regexp.MustCompile(
		`(?i)^(\d{1,3})(?:v\d+)?(?:\s|-|$)`)

	reBareNumber = regexp.MustCompile(
		`(?:^|\s)(\d{1,3})(?:\s|$)`)
)

// Rules is the ordered rule table used by [Parse].
var Rules = []Rule{
	regexRule("SxxEyy", reSxxEyy, seasonEpisode),
	regexRule("NxNN", reNxNN, seasonEpisode),
	regexRule("Season-Episode-words", reSeasonEpisodeWords, seasonEpisode),
	regexRule("Episode-keyword", reEpisodeKeyword, episodeOnlyNotYear),
	regexRule("Dash-number", reDashNumber, episodeOnlyNotYear),
}

// DirectoryRules only apply when the parent directory already names a
// season. On their own, a bare number in a filename is as likely to be part
// of a title ("Toy Story 2") as an episode.
var DirectoryRules = []Rule{
	regexRule("Leading-number", reLeadingNumber, episodeOnly),
	{Name: "Bare-number", Match: matchBareNumber},
}

func seasonEpisode(m []string) (*int, *int, bool) {
	return intPtr(atoi(m[1])), intPtr(atoi(m[2])), true
}

func episodeOnly(m []string) (*int, *int, bool) {
	return nil, intPtr(atoi(m[1])), true
}

func episodeOnlyNotYear(m []string) (*int, *int, bool) {
	if isYear(m[1]) {
		return nil, nil, false
	}
	return episodeOnly(m)
}

// matchBareNumber finds a standalone number that appears before any noise
// token, e.g. "Show 01 720p x264".
func matchBareNumber(s string) (Hit, bool) {
	bare := regexRule("", reBareNumber, episodeOnly)
	hit, ok := bare.Match(s)
	if !ok {
		return Hit{}, false
	}
	for _, word := range strings.Fields(s[:hit.Start]) {
		if isNoise(word) {
			return Hit{}, false
		}
	}
	return hit, true
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n := atoi(s)
	return n >= 1900 && n <= 2099
}
