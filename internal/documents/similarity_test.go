package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "aadhaar", "aadhaar", 1},
		{"both empty", "", "", 1},
		{"one empty", "aadhaar", "", 0},
		{"single dropped glyph", "aadhar", "aadhaar", 1 - 1.0/7.0},
		{"disjoint", "abc", "xyz", 0},
		{"symmetric", "kisan", "kisaan", 1 - 1.0/6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9)
		})
	}
}

func TestSimilarityAcceptsCommonOCRErrors(t *testing.T) {
	// The threshold must tolerate single-glyph noise on the words that
	// actually appear in scans.
	assert.GreaterOrEqual(t, Similarity("aadhar", "aadhaar"), keywordThreshold)
	assert.GreaterOrEqual(t, Similarity("incme", "income"), keywordThreshold)
	assert.Less(t, Similarity("pan", "ration"), keywordThreshold)
}
