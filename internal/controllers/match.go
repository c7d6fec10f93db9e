package controllers

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxTitleDistance is the edit-distance budget for a fuzzy title match
const maxTitleDistance = 2

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTitle lowers, strips diacritics and drops punctuation so store
// titles like "Bastion™" line up with hand-entered names
func normalizeTitle(title string) string {
	if stripped, _, err := transform.String(stripMarks, title); err == nil {
		title = stripped
	}

	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titlesMatch reports whether two titles refer to the same item
func titlesMatch(a, b string) bool {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return levenshtein.ComputeDistance(na, nb) <= maxTitleDistance
}
