package export

import (
	"strings"
	"unicode"
)

const DefaultDocumentLabel = "schedule"

// DocumentFilename is <label>-<range>.doc.
func DocumentFilename(label, rangeLabel string) string {
	label = sanitize(label)
	if label == "" {
		label = DefaultDocumentLabel
	}
	return label + "-" + sanitize(rangeLabel) + ".doc"
}

// ICSFilename is schedule-<range>.ics.
func ICSFilename(rangeLabel string) string {
	return "schedule-" + sanitize(rangeLabel) + ".ics"
}

// sanitize keeps letters, digits, dashes and underscores; anything else
// becomes a dash.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
