package subtitle

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// cleanText normalizes line endings to LF, strips control characters, applies
// Unicode NFC, trims every line, and drops blank lines.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = norm.NFC.String(s)

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

var matchKeyRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// matchKey prepares text for phrase comparison by lowercasing and removing
// punctuation.
func matchKey(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = matchKeyRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// charCount is the length used by the reading-time heuristics; line breaks
// do not count.
func charCount(s string) int {
	n := 0
	for _, r := range s {
		if r != '\n' {
			n++
		}
	}
	return n
}
