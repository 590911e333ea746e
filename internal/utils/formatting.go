package utils

import (
	"regexp"
	"strings"
)

var (
	ansiPattern  = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

func StripANSI(input string) string {
	return ansiPattern.ReplaceAllString(input, "")
}

// StripHTML flattens a changelog or description section to one line of text.
func StripHTML(input string) string {
	text := htmlTag.ReplaceAllString(input, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

func GetMaxWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if length := len(StripANSI(line)); length > maxWidth {
			maxWidth = length
		}
	}
	return maxWidth
}
