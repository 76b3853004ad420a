package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atelier/internal/llm"
	"atelier/internal/logging"
	"atelier/internal/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const shopperSystemPrompt = `You are a personal shopper for luxury fashion in New York City.
Recommend real products that are currently sold by high-end department stores,
flagship boutiques, or luxury e-commerce sites. Answer only with JSON.`

const productSchema = `{"products": [{"name": string, "brand": string, "description": string,
"price": number (USD), "category": string, "store": string, "sku": string,
"availability": "In Stock" | "Limited" | "Made to Order", "rating": number (1-5),
"productUrl": string, "imageQuery": string}]}`

// PageImages resolves product imagery, preferring a product page's preview tag.
type PageImages interface {
	ResolveFromPage(ctx context.Context, pageURL, phrase string) string
}

// Clock returns the current time.
type Clock func() time.Time

// =============================================================================
// ENHANCED TIER
// =============================================================================

// EnhancedTier asks the high-effort model for structured output with category
// context and resolves imagery for every item in parallel.
type EnhancedTier struct {
	gen    llm.Generator
	model  string
	images PageImages
	now    Clock
}

// NewEnhancedTier creates the first remote tier.
func NewEnhancedTier(gen llm.Generator, model string, images PageImages) *EnhancedTier {
	return &EnhancedTier{gen: gen, model: model, images: images, now: time.Now}
}

func (t *EnhancedTier) Name() string { return "enhanced" }

func (t *EnhancedTier) Search(ctx context.Context, q Query) ([]types.ProductCandidate, error) {
	if t.gen == nil {
		return nil, llm.ErrNotConfigured
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Find 6 to 8 luxury products matching: %q.\n", q.Text)
	if q.Category != "" {
		fmt.Fprintf(&sb, "The shopper is browsing the %q category; stay within it.\n", q.Category)
	}
	sb.WriteString("Include the retailer's product page URL when known and a short image search phrase.\n")
	sb.WriteString("Respond with JSON of this shape:\n")
	sb.WriteString(productSchema)

	text, err := t.gen.Generate(ctx, llm.Request{
		Model:       t.model,
		System:      shopperSystemPrompt,
		Prompt:      sb.String(),
		JSON:        true,
		Temperature: 0.4,
		Tier:        t.Name(),
	})
	if err != nil {
		return nil, err
	}
	raws, err := llm.ParseProducts(text)
	if err != nil {
		return nil, err
	}

	batch := t.now()
	out := make([]types.ProductCandidate, len(raws))
	for i, raw := range raws {
		p := fromRaw(raw)
		p.ID = uuid.NewString()
		out[i] = Backfill(p, batch, i)
	}
	t.resolveImages(ctx, q, raws, out)
	return out, nil
}

// resolveImages replaces every image with one resolved from the product page
// or, failing that, from the item's image phrase. out[i] came from raws[i].
func (t *EnhancedTier) resolveImages(ctx context.Context, q Query, raws []types.RawProduct, out []types.ProductCandidate) {
	if t.images == nil {
		return
	}
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range out {
		phrase := raws[i].String("imageQuery", "image_query")
		if phrase == "" {
			phrase = strings.TrimSpace(raws[i].String("brand", "designer") + " " + raws[i].String("name", "title"))
		}
		if phrase == "" {
			phrase = q.Text
		}
		eg.Go(func() error {
			if img := t.images.ResolveFromPage(egCtx, out[i].ProductURL, phrase); img != "" {
				out[i].Image = img
			}
			return nil
		})
	}
	_ = eg.Wait()
}

// =============================================================================
// BASIC TIER
// =============================================================================

// BasicTier makes a lower-effort request and fills field defaults.
type BasicTier struct {
	gen   llm.Generator
	model string
	now   Clock
}

// NewBasicTier creates the second remote tier.
func NewBasicTier(gen llm.Generator, model string) *BasicTier {
	return &BasicTier{gen: gen, model: model, now: time.Now}
}

func (t *BasicTier) Name() string { return "basic" }

func (t *BasicTier) Search(ctx context.Context, q Query) ([]types.ProductCandidate, error) {
	if t.gen == nil {
		return nil, llm.ErrNotConfigured
	}

	text, err := t.gen.Generate(ctx, llm.Request{
		Model:       t.model,
		System:      shopperSystemPrompt,
		Prompt:      fmt.Sprintf("List luxury products for %q as JSON: %s", q.Text, productSchema),
		Temperature: 0.7,
		Tier:        t.Name(),
	})
	if err != nil {
		return nil, err
	}
	raws, err := llm.ParseProducts(text)
	if err != nil {
		return nil, err
	}

	batch := t.now()
	out := make([]types.ProductCandidate, 0, len(raws))
	for i, raw := range raws {
		p := fromRaw(raw)
		p.ID = fmt.Sprintf("basic-%d-%d", batch.UnixMilli(), i)
		if _, ok := raw.Float("price", "price_usd", "priceUSD"); !ok {
			p.Price = DefaultPrice
		}
		if !strings.HasPrefix(p.Image, "http") {
			p.Image = FallbackImage(batch, i)
		}
		out = append(out, Backfill(p, batch, i))
	}
	return out, nil
}

// fromRaw maps a loosely-typed model object onto a candidate.
func fromRaw(raw types.RawProduct) types.ProductCandidate {
	p := types.ProductCandidate{
		Name:        raw.String("name", "title"),
		Brand:       raw.String("brand", "designer"),
		Description: raw.String("description"),
		Category:    raw.String("category"),
		Store:       raw.String("store", "retailer"),
		SKU:         raw.String("sku"),
		ProductURL:  raw.String("productUrl", "product_url", "url"),
		Image:       raw.String("image", "imageUrl", "image_url"),
	}
	if price, ok := raw.Float("price", "price_usd", "priceUSD"); ok {
		p.Price = price
	}
	if rating, ok := raw.Float("rating"); ok {
		p.Rating = rating
	}
	if a, ok := types.ParseAvailability(raw.String("availability")); ok {
		p.Availability = a
	}
	if !strings.HasPrefix(p.Image, "http") {
		p.Image = ""
	}
	return p
}

// logTierFailure is shared by the orchestrator and sessions.
func logTierFailure(q Query, f TierFailure) {
	logging.SearchWarn("Tier %s failed for %q: %v", f.Tier, q.Text, f.Err)
	logging.Audit(logging.CategorySearch).TierFailure(q.Text, f.Tier, f.Err)
}
