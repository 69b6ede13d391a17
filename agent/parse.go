package agent

import (
	"encoding/json"
	"strings"
)

// parseAgentResponse pulls the first balanced JSON object out of the model's
// reply, tolerating prose before and after it ("Here you go: {...} thanks").
func parseAgentResponse(content string) (Response, bool) {
	span, ok := extractJSONObject(strings.TrimSpace(content))
	if !ok {
		return Response{}, false
	}
	var resp Response
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return Response{}, false
	}
	return resp, true
}

// extractJSONObject finds the first balanced {...} span with a brace-depth
// counter. A regex cannot balance nested braces, so this stays an explicit
// character scan; it is also string-aware so braces inside quoted values
// never affect the depth.
func extractJSONObject(s string) (string, bool) {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
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
				return s[open : i+1], true
			}
		}
	}
	return "", false
}
