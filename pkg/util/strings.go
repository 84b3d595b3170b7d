package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/richard-senior/sofabet/internal/logger"
	"golang.org/x/text/unicode/norm"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// FuzzyThreshold is the largest total edit distance still accepted as a match
const FuzzyThreshold = 2

// FuzzyMatch compares query with name word by word after NormalizeName
// The query words are lined up against every run of the same number of consecutive words of name
// Numbers and words shorter than three letters must match exactly, the other words may differ
// by FuzzyThreshold edits in total
// Returns the smallest distance found and whether any run matched
func FuzzyMatch(query, name string) (int, bool) {
	q := strings.Fields(NormalizeName(query))
	n := strings.Fields(NormalizeName(name))

	best, matched := math.MaxInt32, false
	for i := 0; len(q) > 0 && i+len(q) <= len(n); i++ {
		d, ok := matchWords(q, n[i:i+len(q)])
		if ok && d < best {
			best, matched = d, true
		}
		if best == 0 {
			break
		}
	}
	logger.Debug("Fuzzy match", query, name, best, matched)
	return best, matched
}

func matchWords(query, window []string) (int, bool) {
	total := 0
	for i, w := range query {
		if strictWord(w) || strictWord(window[i]) {
			if w != window[i] {
				return 0, false
			}
			continue
		}
		total += LevenshteinDistance(w, window[i])
		if total > FuzzyThreshold {
			return 0, false
		}
	}
	return total, true
}

// strictWord is true for words that only match exactly, "1", "b", "mx", "2."
func strictWord(w string) bool {
	return len([]rune(w)) < 3 || strings.ContainsAny(w, "0123456789")
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows are enough, the full matrix is never read back
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// FuzzyMatchScore turns a distance returned by FuzzyMatch into a similarity between 0.0 and 1.0
// The length difference of the normalised terms counts as edits too, so a partial match scores below a full one
func FuzzyMatchScore(distance int, str1, str2 string) float64 {
	l1, l2 := len([]rune(NormalizeName(str1))), len([]rune(NormalizeName(str2)))
	maxLen := max(l1, l2)
	if maxLen == 0 {
		return 1.0
	}
	edits := distance + max(l1-l2, l2-l1)
	return max(0, 1.0-float64(edits)/float64(maxLen))
}

// NormalizeName lowercases s, strips diacritics and collapses whitespace
// "  Ligue 1  Uber Eats" and "ligue 1 uber eats" normalise to the same string, as do "Bundesliga" and "Bündesliga"
func NormalizeName(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ConvertToInt extracts an integer from anything that looks vaguely numeric
// Everything after the first '.' is discarded, then every non digit is removed
// "12.7" is 12, "#3" is 3, "-4" is 4 and an input with no digits is 0
func ConvertToInt(s string) int {
	head, _, _ := strings.Cut(s, ".")
	digits := nonDigits.ReplaceAllString(head, "")
	if digits == "" {
		return 0
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		// only overflow gets here
		logger.Warn("Integer out of range", digits)
		return 0
	}
	return v
}

// IsNumeric reports whether s, once trimmed, is a non-empty run of ASCII digits
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return !nonDigits.MatchString(s)
}
