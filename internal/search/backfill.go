package search

import (
	"fmt"
	"strings"
	"time"

	"atelier/internal/types"

	"github.com/google/uuid"
)

// Defaults applied to candidates with missing fields.
const (
	DefaultName         = "Luxury Item"
	DefaultBrand        = "Premium Brand"
	DefaultPrice        = 500.0
	DefaultCategory     = "fashion"
	DefaultStore        = "Personal Shopper Network"
	DefaultRating       = 4.5
	DefaultAvailability = types.AvailabilityInStock
)

// FallbackImage returns a placeholder image keyed by batch timestamp and index.
func FallbackImage(batch time.Time, i int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d-%d/800/800", batch.UnixMilli(), i)
}

// Backfill fills every display field a client relies on so that the candidate
// satisfies ProductCandidate.Complete. Present fields are left alone.
func Backfill(p types.ProductCandidate, batch time.Time, i int) types.ProductCandidate {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultName
	}
	if strings.TrimSpace(p.Brand) == "" {
		p.Brand = DefaultBrand
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
	if strings.TrimSpace(p.Store) == "" {
		p.Store = DefaultStore
	}
	if p.Availability == "" {
		p.Availability = DefaultAvailability
	}
	if p.Rating <= 0 {
		p.Rating = DefaultRating
	}
	if p.Rating > 5 {
		p.Rating = 5
	}
	if strings.TrimSpace(p.Image) == "" {
		p.Image = FallbackImage(batch, i)
	}
	return p
}
