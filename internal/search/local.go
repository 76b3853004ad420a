package search

import (
	"context"

	"atelier/internal/catalog"
	"atelier/internal/types"
)

// CuratedTier answers from the hand-maintained catalog.
type CuratedTier struct{}

func (CuratedTier) Name() string { return "curated" }

func (CuratedTier) Search(_ context.Context, q Query) ([]types.ProductCandidate, error) {
	return catalog.Lookup(q.Text), nil
}

// Procedural produces candidates for any query.
type Procedural interface {
	Generate(ctx context.Context, query string) []types.ProductCandidate
}

// ProceduralTier wraps the procedural generator.
type ProceduralTier struct {
	gen Procedural
}

// NewProceduralTier creates the last tier.
func NewProceduralTier(gen Procedural) *ProceduralTier {
	return &ProceduralTier{gen: gen}
}

func (t *ProceduralTier) Name() string { return "procedural" }

func (t *ProceduralTier) Search(ctx context.Context, q Query) ([]types.ProductCandidate, error) {
	return t.gen.Generate(ctx, q.Text), nil
}

var _ Procedural = (*catalog.Generator)(nil)
