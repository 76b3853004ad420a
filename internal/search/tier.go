// Package search implements the product-discovery cascade.
//
// Tiers are tried in order until one returns a non-empty result. A tier that
// errors and a tier that finds nothing are treated the same way: the failure
// is logged and recorded, and the next tier runs. The final procedural tier
// always produces results, so a search never fails.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atelier/internal/types"
)

// ErrNoResults marks a tier that completed without candidates.
var ErrNoResults = errors.New("search: tier returned no results")

// Query is one search request.
type Query struct {
	Text string `json:"query"`
	// Category is an optional hint passed to the remote tiers.
	Category string `json:"category,omitempty"`
}

// Normalized returns the query with surrounding whitespace removed.
func (q Query) Normalized() Query {
	return Query{Text: strings.TrimSpace(q.Text), Category: strings.TrimSpace(q.Category)}
}

// Tier is one source in the cascade.
type Tier interface {
	Name() string
	Search(ctx context.Context, q Query) ([]types.ProductCandidate, error)
}

// TierFailure records a tier that did not answer.
type TierFailure struct {
	Tier string
	Err  error
}

func (f TierFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Tier, f.Err)
}

// MarshalText renders the failure for JSON payloads.
func (f TierFailure) MarshalText() ([]byte, error) {
	return []byte(f.Error()), nil
}

// Result is the outcome of one cascade run.
type Result struct {
	Query      Query                    `json:"query"`
	Candidates []types.ProductCandidate `json:"results"`
	Tier       string                   `json:"tier"`
	Failures   []TierFailure            `json:"failures,omitempty"`
	Seq        uint64                   `json:"seq,omitempty"`
}
