package orders

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues order identifiers.
type IDGenerator interface {
	NextID(now time.Time) string
}

// CounterIDs issues "ORD-<unixmillis>-<counter>" ids. The counter makes ids
// unique within the process even when two orders share a millisecond.
type CounterIDs struct {
	counter atomic.Int64
}

// NewCounterIDs starts the counter at seed.
func NewCounterIDs(seed int64) *CounterIDs {
	c := &CounterIDs{}
	c.counter.Store(seed - 1)
	return c
}

func (c *CounterIDs) NextID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), c.counter.Add(1))
}

// UUIDIDs issues "ORD-<uuid>" ids.
type UUIDIDs struct{}

func (UUIDIDs) NextID(time.Time) string {
	return "ORD-" + strings.ToUpper(uuid.NewString())
}

// NewIDGenerator returns the generator for an id scheme name.
func NewIDGenerator(scheme string, seed int64) IDGenerator {
	if scheme == "uuid" {
		return UUIDIDs{}
	}
	return NewCounterIDs(seed)
}
