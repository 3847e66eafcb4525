package util

import (
	"strings"
	"unicode"
)

// SanitizeString trims surrounding whitespace and drops control
// characters, leaving printable text only.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// SanitizeEnvValue normalizes a value read from the environment or a
// .env file. Surrounding quotes are stripped, then the remainder is
// cleaned like SanitizeString.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '"' || s[0] == '\'') {
		s = s[1 : len(s)-1]
	}
	return SanitizeString(s)
}

// SanitizeFilename maps a storage key to a name safe for the filesystem.
// Path separators and other hostile runes become underscores; the empty
// string becomes "_".
func SanitizeFilename(key string) string {
	if key == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r == 0:
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, key)
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
