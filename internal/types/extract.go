package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RAW PAYLOAD EXTRACTION UTILITIES
// =============================================================================
//
// Remote tiers return loosely-typed JSON. After decoding into map[string]any a
// field can be any of:
//   - string:       "1240", "$1,240.00", "Loro Piana"
//   - float64:      numbers decoded by encoding/json
//   - json.Number:  numbers when the decoder uses UseNumber
//   - int / int64:  values built by hand in tests
//   - bool, nil
//
// These helpers never panic on type mismatch; callers backfill defaults.

// RawProduct is one product object as reported by a remote tier.
type RawProduct map[string]any

// ExtractString extracts a display string from a raw field value.
func ExtractString(arg any) string {
	switch v := arg.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return fmt.Sprintf("%d", v)
	case int:
		return fmt.Sprintf("%d", v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExtractFloat64 extracts a number from a raw field value.
// Price-like strings ("$1,240.00", "USD 980") are accepted.
// Returns (0, false) if nothing numeric can be recovered.
func ExtractFloat64(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		return parseMoney(v)
	default:
		return 0, false
	}
}

func parseMoney(s string) (float64, bool) {
	var b strings.Builder
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '$', r == '€', r == '£':
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			// currency codes
			if b.Len() > 0 {
				break scan
			}
		default:
			if b.Len() > 0 {
				break scan
			}
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String returns the first non-empty string among the given keys.
func (r RawProduct) String(keys ...string) string {
	for _, k := range keys {
		if s := ExtractString(r[k]); s != "" {
			return s
		}
	}
	return ""
}

// Float returns the first numeric value among the given keys.
func (r RawProduct) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if f, ok := ExtractFloat64(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}
