package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize strips an enclosing code fence from a completion and parses the rest as JSON.
// Parse failures wrap ErrMalformedResponse.
func Normalize(raw string) (any, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}
	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return value, nil
}

// StripFences removes a leading ``` marker (with an optional language tag such as json),
// a trailing ``` marker, and surrounding whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			if tag := strings.TrimSpace(s[:nl]); isFenceTag(tag) {
				s = s[nl+1:]
			}
		} else if tag := strings.TrimSpace(s); strings.EqualFold(tag, "json") {
			s = ""
		} else if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceTag(tag string) bool {
	if tag == "" {
		return true
	}
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
