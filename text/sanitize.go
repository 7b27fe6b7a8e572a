package text

import "strings"

// Sanitize strips structural noise from raw article text.
//
// Lines that are blank or whose trimmed form starts with "=" (section markers)
// are dropped and the rest are joined with a single space, so paragraph
// structure is not preserved. Balanced parenthetical spans are then removed at
// any nesting depth, runs of spaces are collapsed and the result is trimmed.
//
// An unmatched "(" is kept literally; balanced groups after it are still removed.
func Sanitize(raw string) string {
	text := removeBlankLinesAndMarkers(raw)
	text = removeParentheticals(text)

	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}

	return strings.TrimSpace(text)
}

// removeBlankLinesAndMarkers filters lines and joins the survivors with spaces.
func removeBlankLinesAndMarkers(text string) string {
	lines := strings.Split(text, "\n")

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "=") {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, " ")
}

// removeParentheticals drops every balanced "( ... )" group, inner groups included.
func removeParentheticals(text string) string {
	if !strings.Contains(text, "(") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] == '(' {
			if end := closingParen(text, i); end >= 0 {
				i = end + 1
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}

	return b.String()
}

// closingParen returns the index of the ")" that balances the "(" at start,
// or -1 if the group never closes.
func closingParen(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
