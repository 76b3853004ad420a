package catalog

import (
	"strings"

	"atelier/internal/types"
)

// =============================================================================
// STORE DIRECTORY
// =============================================================================

// stores is the fixed retailer directory, in display order.
var stores = []types.StoreInfo{
	{Key: "bergdorf", Name: "Bergdorf Goodman", Location: "754 5th Avenue", Specialty: "Designer ready-to-wear and accessories", Website: "https://www.bergdorfgoodman.com"},
	{Key: "saks", Name: "Saks Fifth Avenue", Location: "611 5th Avenue", Specialty: "Luxury handbags and shoes", Website: "https://www.saksfifthavenue.com"},
	{Key: "neiman", Name: "Neiman Marcus", Location: "Hudson Yards", Specialty: "Fine jewelry and designer collections", Website: "https://www.neimanmarcus.com"},
	{Key: "bloomingdales", Name: "Bloomingdale's", Location: "59th Street", Specialty: "Contemporary fashion and beauty", Website: "https://www.bloomingdales.com"},
	{Key: "nordstrom", Name: "Nordstrom", Location: "57th Street Flagship", Specialty: "Shoes and contemporary designers", Website: "https://www.nordstrom.com"},
	{Key: "madison", Name: "Madison Avenue Boutiques", Location: "Upper East Side", Specialty: "Flagship maison boutiques", Website: ""},
	{Key: "soho", Name: "SoHo Boutiques", Location: "SoHo", Specialty: "Emerging designers and streetwear luxury", Website: ""},
	{Key: "netaporter", Name: "Net-a-Porter", Specialty: "Curated luxury e-commerce", Website: "https://www.net-a-porter.com", Online: true},
	{Key: "mytheresa", Name: "Mytheresa", Specialty: "European luxury e-commerce", Website: "https://www.mytheresa.com", Online: true},
}

// Stores returns a copy of the directory.
func Stores() []types.StoreInfo {
	return append([]types.StoreInfo(nil), stores...)
}

// Store looks up a store by key.
func Store(key string) (types.StoreInfo, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range stores {
		if s.Key == key {
			return s, true
		}
	}
	return types.StoreInfo{}, false
}

// apply copies the store's display fields onto a candidate.
func apply(p *types.ProductCandidate, s types.StoreInfo) {
	p.Store = s.DisplayName()
	p.StoreWebsite = s.Website
	p.StoreSpecialty = s.Specialty
	p.Webhook = webhookFor(s)
}

// webhookFor is the fulfillment hook path the concierge desk uses for a store.
func webhookFor(s types.StoreInfo) string {
	return "/hooks/stores/" + s.Key
}
