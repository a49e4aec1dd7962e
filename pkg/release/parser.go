package release

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Extensions are 2-4 alphanumerics with at least one letter. "S01" and
	// "E15" style suffixes are episode tokens, not extensions.
	reExtension    = regexp.MustCompile(`^[A-Za-z0-9]{2,4}$`)
	reHasLetter    = regexp.MustCompile(`[A-Za-z]`)
	reSeasonSuffix = regexp.MustCompile(`^[sSeE]\d`)

	reBracketGroup = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)
	reCodecDots    = regexp.MustCompile(`(?i)\b([hx])\.(26[45])\b`)

	reResolution  = regexp.MustCompile(`(?i)^\d{3,4}[pi]$`)
	reSeasonToken = regexp.MustCompile(`(?i)^s\d{1,3}$`)

	reDirSeason = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])s(?:eason)?[\s._-]*(\d{1,3})(?:[^0-9]|$)`)
)

// noiseWords end a title fragment. Everything from the first noise word on is
// release metadata.
var noiseWords = map[string]bool{
	// Resolution and video
	"4k": true, "uhd": true, "hdr": true, "hdr10": true, "dv": true, "sdr": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true, "avc": true,
	"xvid": true, "divx": true, "10bit": true, "8bit": true,
	// Source
	"bluray": true, "blu-ray": true, "bdrip": true, "brrip": true, "bdremux": true, "remux": true,
	"web": true, "webdl": true, "web-dl": true, "webrip": true, "hdtv": true, "pdtv": true,
	"dvd": true, "dvdrip": true, "hdrip": true, "amzn": true, "nf": true, "dsnp": true, "hmax": true,
	// Audio
	"aac": true, "ac3": true, "eac3": true, "dts": true, "truehd": true, "atmos": true,
	"flac": true, "mp3": true, "dd5": true, "ddp5": true, "dd": true, "ddp": true,
	// Flags
	"proper": true, "repack": true, "rerip": true, "internal": true, "limited": true,
	"extended": true, "unrated": true, "complete": true, "multi": true, "subbed": true, "dubbed": true,
}

func isNoise(word string) bool {
	w := strings.ToLower(word)
	return noiseWords[w] || reResolution.MatchString(w) || reSeasonToken.MatchString(w)
}

// Parse tokenizes a single filename (no directory part) using [Rules].
// It never fails; fields it cannot recover are left empty.
func Parse(filename string) Tokens {
	return parseWith(stripExtension(filename), Rules)
}

// ParsePath tokenizes a path. The filename is parsed first; when it carries
// no season, the parent directory name is consulted ("Season 01",
// "S02", "Show.Season.01.720p"). A season in the filename always wins.
func ParsePath(path string) Tokens {
	stem := stripExtension(filepath.Base(path))
	t := parseWith(stem, Rules)
	if t.HasEpisodeID() {
		return t
	}

	season, ok := DirectorySeason(filepath.Base(filepath.Dir(path)))
	if !ok {
		return t
	}

	if t.Episode == nil {
		dt := parseWith(stem, DirectoryRules)
		if dt.Episode == nil {
			return t
		}
		t = dt
	}
	t.Season = intPtr(season)
	t.Rule += "+season-dir"
	return t
}

// DirectorySeason extracts a season number from a directory name.
// A directory called "Specials" is season 0.
func DirectorySeason(dir string) (int, bool) {
	if strings.EqualFold(strings.TrimSpace(dir), "specials") {
		return 0, true
	}
	m := reDirSeason.FindStringSubmatch(strings.ReplaceAll(dir, "_", " "))
	if m == nil {
		return 0, false
	}
	return atoi(m[1]), true
}

func parseWith(stem string, rules []Rule) Tokens {
	s := reCodecDots.ReplaceAllString(stem, "$1$2")
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)

	for _, rule := range rules {
		hit, ok := rule.Match(s)
		if !ok {
			continue
		}
		t := Tokens{Season: hit.Season, Episode: hit.Episode, Rule: rule.Name}
		t.Title, t.Year = cleanFragment(s[:hit.Start])
		if t.Title == "" {
			t.Title, t.Year = cleanFragment(s[hit.End:])
		}
		return t
	}

	var t Tokens
	t.Title, t.Year = cleanFragment(s)
	return t
}

// cleanFragment turns the raw text around an episode token into a title.
// A trailing year is lifted out unless it is the only word.
func cleanFragment(s string) (string, int) {
	s = reBracketGroup.ReplaceAllString(s, " ")
	s = strings.NewReplacer("-", " ", "(", " ", ")", " ").Replace(s)

	var words []string
	for _, w := range strings.Fields(s) {
		if isNoise(w) {
			break
		}
		words = append(words, w)
	}

	year := 0
	if n := len(words); n > 1 && isYear(words[n-1]) {
		year = atoi(words[n-1])
		words = words[:n-1]
	}
	return strings.Join(words, " "), year
}

func stripExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	ext := name[i+1:]
	if !reExtension.MatchString(ext) || !reHasLetter.MatchString(ext) || reSeasonSuffix.MatchString(ext) {
		return name
	}
	return name[:i]
}
