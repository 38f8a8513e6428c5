// Package similarity scores how alike two free-text strings are.
package similarity

import (
	"unicode/utf8"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// unitCost charges one edit for every insertion, deletion and substitution.
var unitCost = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// LevenshteinDistance returns the minimum number of single-rune edits turning a into b.
func LevenshteinDistance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), unitCost)
}

// CalculateSimilarity returns (maxLen - distance) / maxLen, a score in [0,1].
// Two empty strings are identical and score 1.
func CalculateSimilarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}

	return float64(longest-LevenshteinDistance(a, b)) / float64(longest)
}
