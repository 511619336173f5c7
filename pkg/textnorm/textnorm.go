// Package textnorm normalizes free-text payment references for matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ and Đ are distinct letters, not d plus a combining mark, so NFD leaves them alone.
var letterFold = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics removes combining marks, e.g. "Thanh toán đơn" -> "Thanh toan don"
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, letterFold.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// Normalize strips diacritics, upper-cases and collapses whitespace runs to a single space
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(StripDiacritics(s))), " ")
}

// ContainsNormalized reports whether needle, once normalized, appears in the
// normalized haystack. An empty needle never matches.
func ContainsNormalized(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
