package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports model output that could not be decoded into the
// expected structure. Callers treat it as a hard failure of the call, not
// something to repair.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: parse response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("llm: parse response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractJSON returns the JSON document embedded in model output. Models
// often wrap JSON in markdown fences or lead with prose; this strips fences
// and slices from the first opening brace or bracket to its matching close.
func ExtractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := -1
	var opener, closer byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			opener = s[i]
			closer = '}'
			if opener == '[' {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", &ParseError{Reason: "no JSON found in model output"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", &ParseError{Reason: "unbalanced JSON in model output"}
}

// DecodeJSON extracts and unmarshals a JSON document from model output into T.
func DecodeJSON[T any](text string) (T, error) {
	var out T
	doc, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return out, &ParseError{Reason: "invalid JSON", Err: err}
	}
	return out, nil
}
