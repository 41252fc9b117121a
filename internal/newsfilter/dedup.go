package newsfilter

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases, strips punctuation, and collapses whitespace so
// the same story from two outlets compares equal-ish.
func NormalizeTitle(title string) string {
	title = strings.ToLower(title)
	title = nonAlnumPattern.ReplaceAllString(title, "")
	title = whitespacePattern.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// IsDuplicateTitle reports whether title is a near-duplicate of any already
// seen normalized title. TokenSortRatio is word-order insensitive, so
// "HDFC Bank Q3 beats estimates" matches "Q3 estimates beaten by HDFC Bank".
func IsDuplicateTitle(title string, seenTitles []string, threshold int) bool {
	norm := NormalizeTitle(title)
	for _, seen := range seenTitles {
		if fuzzy.TokenSortRatio(norm, seen) >= threshold {
			return true
		}
	}
	return false
}
