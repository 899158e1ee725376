package utils

import (
	"strings"
	"unicode/utf8"
)

const wordSeparators = " .,:;-"

// TruncateText shortens s to at most max runes, cutting at the last word
// separator when there is one.
// https://stackoverflow.com/a/59955447/6917520
func TruncateText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	cut := string([]rune(s)[:max])
	if i := strings.LastIndexAny(cut, wordSeparators); i > 0 {
		if trimmed := strings.TrimRight(cut[:i], wordSeparators); trimmed != "" {
			return trimmed
		}
	}

	return cut
}

func StringOrNone(s string) string {
	if s == "" {
		return "None"
	}

	return s
}
