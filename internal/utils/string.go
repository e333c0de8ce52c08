package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeWord trims and lowercases a corpus word
func NormalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsWord checks if a string is made of letters only
func IsWord(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	str := strconv.Itoa(n)
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	if n < 1000 {
		return str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
