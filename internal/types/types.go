// Package types provides shared type definitions used across atelier packages.
// This package exists to break import cycles between search, orders, messaging and server.
// Types in this package should be plain data structures with no complex dependencies.
package types

import (
	"strings"
	"time"
)

// =============================================================================
// PRODUCT CANDIDATES
// =============================================================================

// Availability is the stock state shown next to a candidate.
type Availability string

const (
	AvailabilityInStock     Availability = "In Stock"
	AvailabilityLimited     Availability = "Limited"
	AvailabilityMadeToOrder Availability = "Made to Order"
)

// ParseAvailability maps free-form availability text onto the closed set.
// Unknown values report false.
func ParseAvailability(s string) (Availability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in stock", "in_stock", "instock", "available":
		return AvailabilityInStock, true
	case "limited", "limited stock", "low stock":
		return AvailabilityLimited, true
	case "made to order", "made_to_order", "bespoke", "preorder", "pre-order":
		return AvailabilityMadeToOrder, true
	default:
		return "", false
	}
}

// ProductCandidate is the normalized product shape every search tier converges to.
type ProductCandidate struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Brand          string       `json:"brand"`
	Description    string       `json:"description"`
	Price          float64      `json:"price"`
	Category       string       `json:"category"`
	Store          string       `json:"store"`
	StoreWebsite   string       `json:"storeWebsite,omitempty"`
	StoreSpecialty string       `json:"storeSpecialty,omitempty"`
	SKU            string       `json:"sku,omitempty"`
	Webhook        string       `json:"webhook,omitempty"`
	Availability   Availability `json:"availability"`
	Rating         float64      `json:"rating"`
	Image          string       `json:"image"`

	// ProductURL is the retailer page reported by a remote tier, if any.
	ProductURL string `json:"productUrl,omitempty"`
}

// Complete reports whether the candidate may be surfaced to a client:
// every display field is populated and the price is non-negative.
func (p ProductCandidate) Complete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Brand) != "" &&
		strings.TrimSpace(p.Image) != "" &&
		p.Availability != "" &&
		p.Rating > 0 &&
		p.Price >= 0
}

// =============================================================================
// STORES & SEARCH HISTORY
// =============================================================================

// StoreInfo is one entry of the static retailer directory.
type StoreInfo struct {
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	Location  string `json:"location" yaml:"location"`
	Specialty string `json:"specialty" yaml:"specialty"`
	Website   string `json:"website" yaml:"website"`
	Online    bool   `json:"online" yaml:"online"`
}

// DisplayName is the store string embedded in candidates.
// Physical stores carry their location, online retailers an "(Online)" marker.
func (s StoreInfo) DisplayName() string {
	if s.Online {
		return s.Name + " (Online)"
	}
	if s.Location == "" {
		return s.Name
	}
	return s.Name + " - " + s.Location
}

// SearchRecord is one entry of the recent-search history.
type SearchRecord struct {
	Query       string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"resultCount"`
}
