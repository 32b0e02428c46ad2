package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateEstimateReference creates a human-readable estimate reference.
// Format: {COMMODITY}-{VESSEL}-{8charHexUUID}
//
// Example:
//   - Input: commodity="Soybeans", vesselName="Ocean Pioneer"
//   - Output: "SOYBEANS-OCEAN-PIONEER-a3f8e2b1"
//
// Empty parts are skipped, so a bare suffix is still a valid reference.
func GenerateEstimateReference(commodity, vesselName string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{commodity, vesselName} {
		if slug := slugify(p); slug != "" {
			parts = append(parts, slug)
		}
	}
	parts = append(parts, generateShortUUID())
	return strings.Join(parts, "-")
}

// slugify upper-cases s and collapses every run of non-alphanumerics to a
// single hyphen (e.g., "m/v Ocean  Pioneer" -> "M-V-OCEAN-PIONEER")
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
