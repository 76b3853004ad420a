package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"atelier/internal/logging"
	"atelier/internal/types"

	"github.com/google/uuid"
)

const (
	minGenerated = 4
	maxGenerated = 8
	inStockOdds  = 0.8
	minRating    = 3.5
	maxRating    = 5.0
)

// Rand is the random source the generator draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// lockedRand serializes access so one Generator can serve concurrent requests.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// ImageResolver turns descriptive phrases into image URLs, one per phrase.
type ImageResolver interface {
	ResolveAll(ctx context.Context, phrases []string) []string
}

// Generator fabricates plausible luxury listings when no other source answers.
type Generator struct {
	rng    *lockedRand
	images ImageResolver
}

// NewGenerator creates a Generator. A nil images resolver leaves image URLs to
// the orchestrator's backfill.
func NewGenerator(rng Rand, images ImageResolver) *Generator {
	return &Generator{rng: &lockedRand{src: rng}, images: images}
}

// Resolve maps a query to its category, brand pool and price band.
func Resolve(query string) (string, []string, PriceRange) {
	q := strings.ToLower(strings.TrimSpace(query))
	category := genericCategory
	for _, k := range categoryKeywords {
		if strings.Contains(q, k.keyword) {
			category = k.category
			break
		}
	}

	brands, ok := brandPools[category]
	if !ok {
		brands = genericBrands
	}
	pr, ok := priceRanges[category]
	if !ok {
		pr = genericRange
	}
	return category, brands, pr
}

// Generate returns between four and eight candidates sorted by descending rating.
func (g *Generator) Generate(ctx context.Context, query string) []types.ProductCandidate {
	timer := logging.StartTimer(logging.CategoryCatalog, "Generate")
	defer timer.Stop()

	query = strings.TrimSpace(query)
	category, brands, pr := Resolve(query)
	n := minGenerated + g.rng.IntN(maxGenerated-minGenerated+1)
	batch := time.Now().UnixMilli()

	out := make([]types.ProductCandidate, 0, n)
	phrases := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.item(query, category, brands, pr, batch, i))
		phrases = append(phrases, fmt.Sprintf("%s %s luxury fashion", query, category))
	}

	if g.images != nil {
		urls := g.images.ResolveAll(ctx, phrases)
		for i := range out {
			if i < len(urls) {
				out[i].Image = urls[i]
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })

	logging.Catalog("Generated %d %s candidates for %q", len(out), category, query)
	return out
}

func (g *Generator) item(query, category string, brands []string, pr priceRange, batch int64, i int) types.ProductCandidate {
	store := stores[g.rng.IntN(len(stores))]
	brand := brands[g.rng.IntN(len(brands))]
	price := pr.Min + g.rng.IntN(pr.Max-pr.Min+1)

	availability := types.AvailabilityLimited
	if g.rng.Float64() < inStockOdds {
		availability = types.AvailabilityInStock
	}
	rating := minRating + g.rng.Float64()*(maxRating-minRating)
	rating = float64(int(rating*10+0.5)) / 10
	if rating > maxRating {
		rating = maxRating
	}

	p := types.ProductCandidate{
		ID:           fmt.Sprintf("gen-%d-%d-%s", batch, i, uuid.NewString()[:8]),
		Name:         g.name(query, category),
		Brand:        brand,
		Description:  describe(category, query),
		Price:        float64(price),
		Category:     category,
		SKU:          fmt.Sprintf("%s%s-%03d", initials(brand), initials(category), g.rng.IntN(1000)),
		Availability: availability,
		Rating:       rating,
	}
	apply(&p, store)
	return p
}

// name is adjective + either the title-cased query or material + noun.
func (g *Generator) name(query, category string) string {
	adj := adjectives[g.rng.IntN(len(adjectives))]
	if query != "" && g.rng.IntN(2) == 0 {
		return adj + " " + titleCase(query)
	}
	material := materials[g.rng.IntN(len(materials))]
	noun, ok := nouns[category]
	if !ok {
		noun = titleCase(category)
	}
	return adj + " " + material + " " + noun
}

func describe(category, query string) string {
	subject := query
	if subject == "" {
		subject = category
	}
	if tmpl, ok := descriptions[category]; ok {
		return fmt.Sprintf(tmpl, strings.ToLower(subject))
	}
	return fmt.Sprintf(genericDescription, strings.ToLower(subject))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// initials takes the first letter of up to two words, uppercased.
func initials(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		for _, r := range w {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
