package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"atelier/internal/logging"
	"atelier/internal/types"
)

// MaxCuratedResults caps a curated lookup.
const MaxCuratedResults = 8

type curatedItem struct {
	name         string
	brand        string
	description  string
	price        float64
	category     string
	storeKey     string
	sku          string
	availability types.Availability
	rating       float64
	keywords     string
}

type curatedEntry struct {
	key   string
	items []curatedItem
}

// curated is the trusted-but-limited catalog, in match order.
var curated = []curatedEntry{
	{key: "fisherman sweater", items: []curatedItem{
		{"Cable-Knit Cashmere Fisherman Sweater", "Brunello Cucinelli", "Chunky hand-finished cashmere cable knit with a relaxed shoulder.", 4995, "sweater", "bergdorf", "BC-FS-101", types.AvailabilityInStock, 4.9, "cashmere,cable,knit,sweater"},
		{"Baby Cashmere Fisherman Crewneck", "Loro Piana", "Baby cashmere in a traditional fisherman rib, garment dyed.", 3850, "sweater", "madison", "LP-FS-204", types.AvailabilityLimited, 4.8, "cream,knit,sweater"},
		{"Dima Fisherman Sweater", "The Row", "Oversized wool and cashmere fisherman knit with dropped shoulders.", 2290, "sweater", "netaporter", "TR-FS-311", types.AvailabilityInStock, 4.7, "oversized,knit,sweater"},
		{"Wool-Cashmere Fisherman Pullover", "Vince", "Everyday wool-cashmere blend in a classic fisherman stitch.", 445, "sweater", "nordstrom", "VN-FS-118", types.AvailabilityInStock, 4.5, "wool,pullover,sweater"},
	}},
	{key: "cashmere sweater", items: []curatedItem{
		{"Oversized Cashmere Crewneck", "Khaite", "Double-faced cashmere crewneck with a cropped body.", 1380, "sweater", "bergdorf", "KH-CS-402", types.AvailabilityInStock, 4.6, "cashmere,crewneck"},
		{"Cashmere V-Neck Sweater", "Loro Piana", "Featherweight baby cashmere V-neck.", 1650, "sweater", "madison", "LP-CS-417", types.AvailabilityInStock, 4.8, "cashmere,vneck"},
		{"Ribbed Cashmere Turtleneck", "Totême", "Slim ribbed turtleneck in pure cashmere.", 690, "sweater", "mytheresa", "TO-CS-203", types.AvailabilityLimited, 4.4, "cashmere,turtleneck"},
	}},
	{key: "leather tote", items: []curatedItem{
		{"Park Tote in Saddle Leather", "The Row", "Unlined vegetable-tanned leather tote with flat handles.", 1990, "handbag", "saks", "TR-LT-509", types.AvailabilityLimited, 4.8, "leather,tote,bag"},
		{"Andiamo Intrecciato Tote", "Bottega Veneta", "Hand-woven intrecciato nappa with knot detail.", 5900, "handbag", "madison", "BV-LT-611", types.AvailabilityMadeToOrder, 4.9, "woven,leather,tote"},
		{"Shopping Tote in Supple Leather", "Saint Laurent", "Soft grained leather tote with embossed logo.", 2450, "handbag", "bergdorf", "SL-LT-702", types.AvailabilityInStock, 4.5, "black,leather,tote"},
	}},
	{key: "white sneakers", items: []curatedItem{
		{"Original Achilles Low", "Common Projects", "Italian nappa leather low-top with gold serial stamp.", 425, "sneakers", "nordstrom", "CP-WS-100", types.AvailabilityInStock, 4.6, "white,sneakers,minimal"},
		{"Super-Star Leather Sneakers", "Golden Goose", "Hand-distressed leather with star patch.", 595, "sneakers", "soho", "GG-WS-221", types.AvailabilityInStock, 4.3, "white,sneakers,star"},
		{"Tennis Walk Sneakers", "Loro Piana", "Calfskin tennis sneaker with cashmere lining.", 995, "sneakers", "madison", "LP-WS-330", types.AvailabilityLimited, 4.7, "white,tennis,sneakers"},
	}},
	{key: "trench coat", items: []curatedItem{
		{"Kensington Heritage Trench", "Burberry", "Cotton gabardine trench with check undercollar.", 2390, "coat", "saks", "BU-TC-800", types.AvailabilityInStock, 4.8, "trench,coat,beige"},
		{"Belted Gabardine Trench", "Max Mara", "Water-repellent gabardine trench with raglan sleeves.", 1890, "coat", "neiman", "MM-TC-812", types.AvailabilityInStock, 4.6, "trench,coat,belted"},
	}},
	{key: "silk scarf", items: []curatedItem{
		{"Carré 90 Silk Twill Scarf", "Hermès", "Hand-rolled silk twill carré.", 610, "scarf", "madison", "HE-SS-900", types.AvailabilityLimited, 4.9, "silk,scarf,print"},
		{"GG Silk Foulard", "Gucci", "Printed silk foulard with monogram border.", 450, "scarf", "bloomingdales", "GU-SS-915", types.AvailabilityInStock, 4.4, "silk,scarf,monogram"},
	}},
	{key: "suede loafers", items: []curatedItem{
		{"Summer Walk Suede Loafers", "Loro Piana", "Unlined suede moccasin with white rubber sole.", 1095, "loafers", "madison", "LP-SL-120", types.AvailabilityInStock, 4.8, "suede,loafers"},
		{"Suede Horsebit Loafers", "Gucci", "Soft suede loafer with gold-tone horsebit.", 980, "loafers", "saks", "GU-SL-133", types.AvailabilityInStock, 4.5, "suede,horsebit,loafers"},
		{"Penny Loafers in Suede", "Tod's", "Gommino pebble sole with leather penny strap.", 725, "loafers", "neiman", "TD-SL-140", types.AvailabilityLimited, 4.4, "suede,penny,loafers"},
	}},
}

// CuratedKeys returns the known phrases in match order.
func CuratedKeys() []string {
	keys := make([]string, 0, len(curated))
	for _, e := range curated {
		keys = append(keys, e.key)
	}
	return keys
}

// Lookup matches the query against the curated phrases.
// An entry matches when its key contains the query's first token, or when the
// query contains the key. Results keep table order and are capped at
// MaxCuratedResults. Returned candidates are fresh copies.
func Lookup(query string) []types.ProductCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	first := strings.Fields(q)[0]

	var out []types.ProductCandidate
	for _, entry := range curated {
		if !strings.Contains(entry.key, first) && !strings.Contains(q, entry.key) {
			continue
		}
		for i, item := range entry.items {
			if len(out) >= MaxCuratedResults {
				break
			}
			out = append(out, item.candidate(entry.key, i))
		}
		if len(out) >= MaxCuratedResults {
			break
		}
	}

	logging.CatalogDebug("Curated lookup %q: %d results", query, len(out))
	return out
}

func (c curatedItem) candidate(key string, i int) types.ProductCandidate {
	p := types.ProductCandidate{
		ID:           fmt.Sprintf("curated-%s-%d", strings.ReplaceAll(key, " ", "-"), i+1),
		Name:         c.name,
		Brand:        c.brand,
		Description:  c.description,
		Price:        c.price,
		Category:     c.category,
		SKU:          c.sku,
		Availability: c.availability,
		Rating:       c.rating,
		Image:        "https://source.unsplash.com/800x800/?" + url.QueryEscape(c.keywords),
	}
	if s, ok := Store(c.storeKey); ok {
		apply(&p, s)
	}
	return p
}
