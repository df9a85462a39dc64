package documents

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// keywordThreshold is the minimum similarity at which an OCR token is
// accepted as a match for an expected keyword. Tuned to tolerate single-glyph
// OCR errors on short words ("aadhar" vs "aadhaar" scores ~0.857).
const keywordThreshold = 0.75

// Similarity returns a normalized edit-distance similarity in [0,1].
// Symmetric in its arguments; 1 means identical, 0 means nothing shared.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
