package catalog

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"atelier/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingImages struct {
	mu      sync.Mutex
	phrases []string
}

func (r *recordingImages) ResolveAll(_ context.Context, phrases []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phrases = append(r.phrases, phrases...)
	out := make([]string, len(phrases))
	for i := range phrases {
		out[i] = "https://img.test/" + strings.ReplaceAll(phrases[i], " ", "+")
	}
	return out
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestStoreDirectory(t *testing.T) {
	all := Stores()
	require.NotEmpty(t, all)

	s, ok := Store("Bergdorf")
	require.True(t, ok)
	assert.Equal(t, "Bergdorf Goodman - 754 5th Avenue", s.DisplayName())

	online, ok := Store("netaporter")
	require.True(t, ok)
	assert.True(t, strings.Contains(strings.ToLower(online.DisplayName()), "online"))

	_, ok = Store("nope")
	assert.False(t, ok)

	// Stores returns a copy.
	all[0].Name = "changed"
	again, _ := Store(all[0].Key)
	assert.NotEqual(t, "changed", again.Name)
}

func TestLookup_FishermanSweater(t *testing.T) {
	got := Lookup("  Fisherman Sweater ")
	require.Len(t, got, 4)

	brands := make([]string, 0, len(got))
	for _, p := range got {
		brands = append(brands, p.Brand)
		assert.True(t, p.Complete(), "curated candidate %q incomplete", p.Name)
		assert.NotEmpty(t, p.SKU)
		assert.NotEmpty(t, p.Store)
	}
	assert.Equal(t, []string{"Brunello Cucinelli", "Loro Piana", "The Row", "Vince"}, brands)
}

func TestLookup_FirstTokenMatchesAcrossEntries(t *testing.T) {
	got := Lookup("sweater")
	// fisherman sweater (4) + cashmere sweater (3)
	assert.Len(t, got, 7)
}

func TestLookup_CapAndFreshCopies(t *testing.T) {
	for _, key := range CuratedKeys() {
		assert.LessOrEqual(t, len(Lookup(key)), MaxCuratedResults)
	}

	a := Lookup("leather tote")
	require.NotEmpty(t, a)
	a[0].Name = "mutated"
	b := Lookup("leather tote")
	assert.NotEqual(t, "mutated", b[0].Name)

	ids := map[string]bool{}
	for _, p := range b {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
	}
}

func TestLookup_Miss(t *testing.T) {
	assert.Empty(t, Lookup("teal umbrella"))
	assert.Empty(t, Lookup(""))
	assert.Empty(t, Lookup("   "))
}

func TestResolve_KeywordOrder(t *testing.T) {
	tests := []struct {
		query    string
		category string
	}{
		{"black leather handbag", "handbag"},
		{"weekend bag", "handbag"},
		{"white sneakers", "sneakers"},
		{"cashmere sweater", "sweater"},
		{"teal umbrella", "fashion"},
		{"", "fashion"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			category, brands, _ := Resolve(tt.query)
			assert.Equal(t, tt.category, category)
			assert.NotEmpty(t, brands)
		})
	}

	_, _, pr := Resolve("teal umbrella")
	assert.Equal(t, PriceRange{Min: 200, Max: 1500}, pr)
}

func TestGenerate_TealUmbrella(t *testing.T) {
	images := &recordingImages{}
	g := NewGenerator(seeded(7), images)

	for run := 0; run < 25; run++ {
		got := g.Generate(context.Background(), "teal umbrella")
		require.GreaterOrEqual(t, len(got), 4)
		require.LessOrEqual(t, len(got), 8)

		for i, p := range got {
			assert.Equal(t, "fashion", p.Category)
			assert.GreaterOrEqual(t, p.Price, 200.0)
			assert.LessOrEqual(t, p.Price, 1500.0)
			assert.Equal(t, p.Price, float64(int(p.Price)), "price must be whole dollars")
			assert.GreaterOrEqual(t, p.Rating, 3.5)
			assert.LessOrEqual(t, p.Rating, 5.0)
			assert.Contains(t, []types.Availability{types.AvailabilityInStock, types.AvailabilityLimited}, p.Availability)
			assert.True(t, p.Complete())
			assert.NotEmpty(t, p.SKU)
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Rating, p.Rating)
			}
		}
	}

	images.mu.Lock()
	defer images.mu.Unlock()
	require.NotEmpty(t, images.phrases)
	assert.Equal(t, "teal umbrella fashion luxury fashion", images.phrases[0])
}

func TestGenerate_CategoryRanges(t *testing.T) {
	g := NewGenerator(seeded(42), &recordingImages{})
	for _, q := range []string{"quilted handbag", "silk scarf", "gold watch"} {
		category, brands, pr := Resolve(q)
		for _, p := range g.Generate(context.Background(), q) {
			assert.Equal(t, category, p.Category)
			assert.Contains(t, brands, p.Brand)
			assert.GreaterOrEqual(t, p.Price, float64(pr.Min))
			assert.LessOrEqual(t, p.Price, float64(pr.Max))
		}
	}
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	g := NewGenerator(seeded(3), &recordingImages{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotEmpty(t, g.Generate(context.Background(), "suede boots"))
		}()
	}
	wg.Wait()
}

func TestInitialsAndTitleCase(t *testing.T) {
	assert.Equal(t, "BV", initials("Bottega Veneta"))
	assert.Equal(t, "H", initials("Hermès"))
	assert.Equal(t, "X", initials(""))
	assert.Equal(t, "Teal Umbrella", titleCase("teal UMBRELLA"))
}
