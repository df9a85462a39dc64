package rules

import "strings"

// NormalizeDocKey converts a human-readable document name to its canonical
// lowercase snake_case key, so "Aadhaar Card", "aadhaar-card" and
// "AADHAAR  CARD." all map to "aadhaar_card".
func NormalizeDocKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastUnderscore := true // suppress leading separator
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
