package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// Slugify derives a URL-safe slug from a display name: lowercase
// alphanumerics with single hyphens between words.
func Slugify(s string) string {
	s = strings.ToLower(TrimAndNormalize(s))

	var result strings.Builder
	var lastWasHyphen bool

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			result.WriteRune(r)
			lastWasHyphen = false
		case r == ' ', r == '-', r == '_':
			if !lastWasHyphen && result.Len() > 0 {
				result.WriteRune('-')
				lastWasHyphen = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}
