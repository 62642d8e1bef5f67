// Package normalize provides the deterministic text transforms shared by the
// search pipeline so that comparisons are locale- and punctuation-insensitive.
package normalize

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Package-level compiled regex patterns for performance
var (
	nonWordRegex     = regexp.MustCompile(`[^\w\s]`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
	whitespaceRegex  = regexp.MustCompile(`\s`)
	digitsOnlyRegex  = regexp.MustCompile(`^[0-9]+$`)
	latinScriptRegex = regexp.MustCompile(`[a-zA-Z0-9\s]`)
)

// Normalize lowercases the input, strips every character that is not a word
// character or whitespace, collapses whitespace runs to a single space, and
// trims. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	result := strings.ToLower(text)
	result = nonWordRegex.ReplaceAllString(result, "")
	result = multiSpaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// FuzzyMatch reports whether candidateName is a plausible hit for query.
// Both sides are normalized first; a substring containment is an immediate
// match. Otherwise query tokens of at least 2 characters are checked for
// containment in either direction against the candidate tokens, and the
// match succeeds when at least half of the query tokens (rounded up) hit.
// A query whose tokens are all shorter than 2 characters never matches.
func FuzzyMatch(query, candidateName string) bool {
	q := Normalize(query)
	c := Normalize(candidateName)
	if q == "" || c == "" {
		return false
	}

	if strings.Contains(c, q) {
		return true
	}

	queryTokens := strings.Fields(q)
	candidateTokens := strings.Fields(c)

	matched := 0
	checked := 0
	for _, qt := range queryTokens {
		if len(qt) < 2 {
			continue
		}
		checked++
		for _, ct := range candidateTokens {
			if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				matched++
				break
			}
		}
	}

	// No vacuous true when every token was too short to check.
	if checked == 0 {
		return false
	}

	needed := int(math.Ceil(0.5 * float64(len(queryTokens))))
	return matched >= needed
}

// LooksLatinScript reports whether more than 80% of the characters are ASCII
// letters, digits, or whitespace. Used as a ranking tie-breaker only, never
// as a filter.
func LooksLatinScript(text string) bool {
	if text == "" {
		return false
	}
	total := utf8.RuneCountInString(text)
	matching := len(latinScriptRegex.FindAllString(text, -1))
	return float64(matching)/float64(total) > 0.8
}

// LooksLikeIdentifier reports whether the input, with whitespace removed, is
// 8 to 14 decimal digits. This is the sole barcode/text dispatch rule.
func LooksLikeIdentifier(text string) bool {
	stripped := whitespaceRegex.ReplaceAllString(text, "")
	if len(stripped) < 8 || len(stripped) > 14 {
		return false
	}
	return digitsOnlyRegex.MatchString(stripped)
}
