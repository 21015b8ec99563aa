package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases the value, replaces runs of whitespace and underscores
// with single hyphens and drops everything that is not a letter, digit or
// hyphen. Matches the slug format the reference site links are built from.
func Slugify(value string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// TitleizeDatabaseName derives a human display name from a raw database name
// when the extract does not supply one, e.g. "NHSE_IAPT" -> "Nhse Iapt".
func TitleizeDatabaseName(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// NormalizeLink clears the "N/A" sentinel the extracts use for absent links.
func NormalizeLink(link string) string {
	if link == "N/A" {
		return ""
	}
	return link
}
