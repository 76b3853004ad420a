package usage

import "time"

// UsageData is the persisted document.
type UsageData struct {
	Version   string          `json:"version"`
	Updated   time.Time       `json:"updated"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds token counters for the remote search service.
type AggregatedStats struct {
	Total   TokenCounts            `json:"total"`
	ByModel map[string]TokenCounts `json:"by_model"`
	ByTier  map[string]TokenCounts `json:"by_tier"` // enhanced, basic
}

// TokenCounts holds prompt/response sums and call counts.
type TokenCounts struct {
	Calls  int64 `json:"calls"`
	Failed int64 `json:"failed"`
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

// Add records one call.
func (tc *TokenCounts) Add(input, output int, failed bool) {
	tc.Calls++
	if failed {
		tc.Failed++
	}
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
