package llm

import "strings"

// ExtractJSON pulls the first complete JSON object or array out of text that
// may surround it with prose. Models occasionally wrap structured output in
// explanation despite instructions; the balanced-delimiter scan recovers it.
// Returns the input unchanged if no complete JSON value is found.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	start := -1
	var openCh, closeCh byte
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] == '{' || trimmed[i] == '[' {
			start = i
			openCh = trimmed[i]
			if openCh == '{' {
				closeCh = '}'
			} else {
				closeCh = ']'
			}
			break
		}
	}
	if start < 0 {
		return trimmed
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Delimiters inside strings do not count.
		case c == openCh:
			depth++
		case c == closeCh:
			depth--
			if depth == 0 {
				return trimmed[start : i+1]
			}
		}
	}

	return trimmed
}
