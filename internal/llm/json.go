package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"atelier/internal/types"
)

// ExtractJSON returns the first balanced {...} object in text, ignoring braces
// inside string literals. Markdown fences and surrounding prose are skipped.
// An unterminated opener does not hide a complete object after it. It returns
// "" when no complete object exists. The scan is a single linear pass.
func ExtractJSON(text string) string {
	first := strings.IndexByte(text, '{')
	if first < 0 {
		return ""
	}

	var open []int
	bestStart, bestEnd := -1, -1
	inString := false
	escaped := false
	for i := first; i < len(text); i++ {
		c := text[i]
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
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			// a later pop with a smaller start encloses the earlier pair
			if bestStart < 0 || start < bestStart {
				bestStart, bestEnd = start, i
			}
			if len(open) == 0 {
				return text[bestStart : bestEnd+1]
			}
		}
	}
	if bestStart < 0 {
		return ""
	}
	return text[bestStart : bestEnd+1]
}

type productEnvelope struct {
	Products []types.RawProduct `json:"products"`
}

// ParseProducts decodes a {"products": [...]} payload from a model response.
// A bare JSON array of products is accepted as well.
func ParseProducts(text string) ([]types.RawProduct, error) {
	trimmed := stripFence(text)
	if strings.HasPrefix(trimmed, "[") {
		var list []types.RawProduct
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
		return list, nil
	}

	obj := ExtractJSON(text)
	if obj == "" {
		return nil, ErrNoJSON
	}
	var env productEnvelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return env.Products, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
