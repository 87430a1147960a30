package picker

import (
	"regexp"
	"unicode/utf8"
)

const ellipsis = "…"

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// visibleLength returns the rune count of s without ANSI codes.
func visibleLength(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

// truncate shortens text to maxWidth runes, ending in an ellipsis when
// anything was cut.
func truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if maxWidth <= ellipsisLen {
		return string([]rune(ellipsis)[:maxWidth])
	}

	runes := []rune(text)
	return string(runes[:maxWidth-ellipsisLen]) + ellipsis
}
