// Package usage counts tokens spent on the generative remote search service.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"atelier/internal/logging"
)

const (
	fileName      = "usage.json"
	autoSaveDelay = 5 * time.Second
)

// Tracker aggregates usage in memory and persists it to a JSON file.
// A Tracker with an empty path never touches disk.
type Tracker struct {
	mu       sync.Mutex
	data     UsageData
	filePath string
	dirty    bool
	timer    *time.Timer
}

// NewTracker creates a tracker persisting under dir. Existing totals are loaded.
func NewTracker(dir string) (*Tracker, error) {
	t := &Tracker{data: emptyData()}
	if dir == "" {
		return t, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create usage dir: %w", err)
	}
	t.filePath = filepath.Join(dir, fileName)
	if err := t.Load(); err != nil {
		logging.Get(logging.CategoryLLM).Warn("Usage file unreadable, starting fresh: %v", err)
		t.data = emptyData()
	}
	return t, nil
}

func emptyData() UsageData {
	return UsageData{
		Version: "1.0",
		Aggregate: AggregatedStats{
			ByModel: make(map[string]TokenCounts),
			ByTier:  make(map[string]TokenCounts),
		},
	}
}

// Path returns the backing file, or "" for an in-memory tracker.
func (t *Tracker) Path() string {
	return t.filePath
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &t.data); err != nil {
		return err
	}
	if t.data.Aggregate.ByModel == nil {
		t.data.Aggregate.ByModel = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.ByTier == nil {
		t.data.Aggregate.ByTier = make(map[string]TokenCounts)
	}
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	t.dirty = false
	if t.filePath == "" {
		return nil
	}
	raw, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filePath, raw, 0644)
}

// Track records one remote call. Saves are debounced.
func (t *Tracker) Track(model, tier string, input, output int, failed bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Updated = time.Now()
	t.data.Aggregate.Total.Add(input, output, failed)
	addToMap(t.data.Aggregate.ByModel, model, input, output, failed)
	addToMap(t.data.Aggregate.ByTier, tier, input, output, failed)

	if !t.dirty && t.filePath != "" {
		t.dirty = true
		t.timer = time.AfterFunc(autoSaveDelay, func() {
			if err := t.Save(); err != nil {
				logging.Get(logging.CategoryLLM).Warn("Usage save failed: %v", err)
			}
		})
	}
}

// Close stops the pending autosave and flushes.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if !t.dirty {
		return nil
	}
	return t.saveLocked()
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByModel = copyCounts(stats.ByModel)
	stats.ByTier = copyCounts(stats.ByTier)
	return stats
}

func copyCounts(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int, failed bool) {
	if key == "" {
		key = "unknown"
	}
	entry := m[key]
	entry.Add(input, output, failed)
	m[key] = entry
}
