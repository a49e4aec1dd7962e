package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Only II-IX after a word are converted. A lone "I" or "X" is too often a
// real word ("I Robot", "SPY x FAMILY").
var reRomanNumeral = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a title, strips accents, spells out '&' and drops
// punctuation. Two titles are considered the same name when their folded
// forms are equal.
func Fold(title string) string {
	s, _, err := transform.String(accentFolder, strings.ToLower(title))
	if err != nil {
		s = strings.ToLower(title)
	}
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanTitle is [Fold] plus Roman numeral conversion and removal of leading
// articles, used for fuzzy comparison.
func CleanTitle(title string) string {
	s := reRomanNumeral.ReplaceAllStringFunc(strings.ToLower(title), func(m string) string {
		return " " + romanToArabic[strings.TrimSpace(m)]
	})

	// Articles are stripped per subtitle part: "Léon: The Professional".
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripArticle(Fold(part))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func stripArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if rest, ok := strings.CutPrefix(s, art); ok {
			return rest
		}
	}
	return s
}

// SearchQuery turns a parsed title fragment into a query for a metadata
// search: '&' is spelled out and whitespace collapsed, case is kept.
func SearchQuery(title string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(title, "&", "and")), " ")
}
