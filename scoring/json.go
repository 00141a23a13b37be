package scoring

import (
	"encoding/json"
	"strings"
)

// CleanJSONResponse strips markdown code fences from a model response
// and, when the remainder still is not valid JSON, falls back to the
// first balanced {...} window found in the text. The result is not
// guaranteed to decode; callers must still check.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	content = strings.TrimSpace(content)

	if json.Valid([]byte(content)) {
		return content
	}

	if window := balancedObject(content); window != "" {
		return window
	}
	return content
}

// balancedObject returns the first brace-balanced object substring, or
// "" when none decodes.
func balancedObject(s string) string {
	start := strings.Index(s, "{")
	for start != -1 {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
			c := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					cand := s[start : i+1]
					if json.Valid([]byte(cand)) {
						return cand
					}
					i = len(s)
				}
			}
		}
		next := strings.Index(s[start+1:], "{")
		if next == -1 {
			break
		}
		start = start + 1 + next
	}
	return ""
}
