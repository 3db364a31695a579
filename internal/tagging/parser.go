package tagging

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?is)^```(?:json)?\\s*\n(.*?)\n```\\s*$")

// ParseTagArray extracts a JSON array from unstructured model output. Models
// routinely wrap the array in code fences or prose; this unwraps a fence,
// tries a direct parse, and finally walks the text from the first '[' with a
// bracket-depth scan that respects string literals, so brackets inside quoted
// tag names cannot truncate the match. It never fails: anything unusable
// yields an empty slice, which the tagger treats as "zero tags returned".
func ParseTagArray(text string) []any {
	text = strings.TrimSpace(text)
	if text == "" {
		return []any{}
	}

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if arr, ok := parseArray(text); ok {
		return arr
	}

	if candidate, ok := firstJSONArray(text); ok {
		if arr, ok := parseArray(candidate); ok {
			return arr
		}
	}

	return []any{}
}

func parseArray(text string) ([]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// firstJSONArray returns the substring from the first '[' to its matching
// top-level ']', or false when the input has no balanced array.
func firstJSONArray(input string) (string, bool) {
	start := strings.IndexByte(input, '[')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
		}

		if depth == 0 {
			return input[start : i+1], true
		}
	}

	return "", false
}
