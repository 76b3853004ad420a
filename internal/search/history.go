package search

import (
	"sync"

	"atelier/internal/types"
)

// DefaultHistorySize is the number of recent searches kept.
const DefaultHistorySize = 5

// History is a bounded, most-recent-first list of searches.
type History struct {
	mu      sync.Mutex
	max     int
	records []types.SearchRecord
}

// NewHistory creates a history holding at most max entries.
// Non-positive sizes fall back to DefaultHistorySize.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Add records a search at the front, evicting the oldest entry when full.
func (h *History) Add(r types.SearchRecord) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append([]types.SearchRecord{r}, h.records...)
	if len(h.records) > h.max {
		h.records = h.records[:h.max]
	}
}

// Recent returns a copy of the entries, most recent first.
func (h *History) Recent() []types.SearchRecord {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]types.SearchRecord{}, h.records...)
}

// Len reports the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}
