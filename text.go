package triptych

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapText wraps a paragraph to lines no wider than maxWidth, with every
// rune advancing by advance. Words wider than a line are split.
// Returns nil for blank text.
func WrapText(text string, maxWidth, advance float32) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 || advance <= 0 {
		return []string{strings.Join(words, " ")}
	}

	perLine := int(maxWidth / advance)
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range words {
		n := utf8.RuneCountInString(word)

		// Long words fall back to character wrapping.
		for n > perLine {
			flush()
			head, tail := splitRunes(word, perLine)
			lines = append(lines, head)
			word = tail
			n -= perLine
		}

		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = n
		case currentLen+1+n <= perLine:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + n
		default:
			flush()
			current.WriteString(word)
			currentLen = n
		}
	}
	flush()

	return lines
}

// splitRunes splits s after n runes.
func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims
// the ends.
func NormalizeSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TruncateText shortens text to at most maxWidth, ending in "..", when it
// does not fit.
func TruncateText(text string, maxWidth, advance float32) string {
	if advance <= 0 {
		return text
	}
	limit := int(maxWidth / advance)
	n := utf8.RuneCountInString(text)
	if n <= limit {
		return text
	}
	if limit <= 2 {
		head, _ := splitRunes("..", max(limit, 0))
		return head
	}
	head, _ := splitRunes(text, limit-2)
	return head + ".."
}
