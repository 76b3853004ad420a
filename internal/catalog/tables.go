package catalog

// priceRange is an inclusive [Min, Max] band in dollars.
type priceRange struct {
	Min int
	Max int
}

// PriceRange is the exported view of a category's price band.
type PriceRange = priceRange

const genericCategory = "fashion"

// categoryKeywords is scanned in order; the first keyword contained in the
// query decides the category. Longer forms precede their substrings.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"handbag", "handbag"},
	{"clutch", "handbag"},
	{"tote", "handbag"},
	{"purse", "handbag"},
	{"bag", "handbag"},
	{"sneaker", "sneakers"},
	{"trainer", "sneakers"},
	{"loafer", "loafers"},
	{"boot", "boots"},
	{"heel", "heels"},
	{"pump", "heels"},
	{"sandal", "sandals"},
	{"sweater", "sweater"},
	{"cardigan", "sweater"},
	{"knit", "sweater"},
	{"coat", "coat"},
	{"trench", "coat"},
	{"jacket", "jacket"},
	{"blazer", "jacket"},
	{"dress", "dress"},
	{"gown", "dress"},
	{"shirt", "shirt"},
	{"blouse", "shirt"},
	{"trouser", "trousers"},
	{"pants", "trousers"},
	{"jeans", "trousers"},
	{"scarf", "scarf"},
	{"shawl", "scarf"},
	{"sunglasses", "eyewear"},
	{"glasses", "eyewear"},
	{"watch", "watch"},
	{"necklace", "jewelry"},
	{"bracelet", "jewelry"},
	{"earring", "jewelry"},
	{"ring", "jewelry"},
	{"wallet", "small leather goods"},
	{"belt", "small leather goods"},
}

var brandPools = map[string][]string{
	"handbag":             {"Hermès", "Chanel", "Bottega Veneta", "Loewe", "The Row", "Celine", "Saint Laurent"},
	"sneakers":            {"Common Projects", "Golden Goose", "Loro Piana", "Balenciaga", "Prada"},
	"loafers":             {"Gucci", "Loro Piana", "Tod's", "J.M. Weston", "Church's"},
	"boots":               {"Saint Laurent", "Khaite", "Bottega Veneta", "Chloé", "Gianvito Rossi"},
	"heels":               {"Manolo Blahnik", "Christian Louboutin", "Jimmy Choo", "Aquazzura"},
	"sweater":             {"Brunello Cucinelli", "Loro Piana", "The Row", "Khaite", "Totême", "Vince"},
	"coat":                {"Max Mara", "Burberry", "The Row", "Loro Piana", "Jil Sander"},
	"jacket":              {"Saint Laurent", "Tom Ford", "Brunello Cucinelli", "Acne Studios"},
	"dress":               {"Valentino", "Oscar de la Renta", "Zimmermann", "Dior", "Carolina Herrera"},
	"scarf":               {"Hermès", "Gucci", "Loro Piana", "Acne Studios"},
	"eyewear":             {"Cartier", "Jacques Marie Mage", "Celine", "Oliver Peoples"},
	"watch":               {"Cartier", "Rolex", "Patek Philippe", "Audemars Piguet", "Omega"},
	"jewelry":             {"Cartier", "Tiffany & Co.", "Van Cleef & Arpels", "Bulgari", "David Yurman"},
	"small leather goods": {"Hermès", "Bottega Veneta", "Smythson", "Goyard"},
}

var genericBrands = []string{"Gucci", "Prada", "Saint Laurent", "Valentino", "Brunello Cucinelli", "Loewe", "The Row"}

var priceRanges = map[string]priceRange{
	"handbag":             {1500, 8500},
	"sneakers":            {400, 1200},
	"loafers":             {650, 1400},
	"boots":               {900, 2400},
	"heels":               {650, 1500},
	"sweater":             {350, 4500},
	"coat":                {1200, 6500},
	"jacket":              {1100, 5200},
	"dress":               {800, 6000},
	"scarf":               {250, 1200},
	"eyewear":             {350, 1400},
	"watch":               {3500, 45000},
	"jewelry":             {900, 25000},
	"small leather goods": {300, 1500},
}

var genericRange = priceRange{200, 1500}

var adjectives = []string{"Signature", "Heritage", "Iconic", "Classic", "Essential", "Atelier", "Limited Edition", "Refined"}

var materials = []string{"Cashmere", "Calfskin", "Silk", "Suede", "Merino", "Nappa Leather", "Alpaca", "Tweed"}

// nouns gives the display noun for a category when the query is not reused as the name.
var nouns = map[string]string{
	"handbag":             "Bag",
	"sneakers":            "Sneakers",
	"loafers":             "Loafers",
	"boots":               "Boots",
	"heels":               "Pumps",
	"sweater":             "Sweater",
	"coat":                "Coat",
	"jacket":              "Jacket",
	"dress":               "Dress",
	"shirt":               "Shirt",
	"trousers":            "Trousers",
	"scarf":               "Scarf",
	"sandals":             "Sandals",
	"eyewear":             "Sunglasses",
	"watch":               "Watch",
	"jewelry":             "Piece",
	"small leather goods": "Wallet",
}

var descriptions = map[string]string{
	"handbag":  "Structured %s handbag finished by hand with tonal stitching.",
	"sneakers": "Low-profile %s sneakers on a cushioned rubber sole.",
	"loafers":  "Slip-on %s loafers with a leather-lined footbed.",
	"sweater":  "Soft %s knit with ribbed trims and a relaxed fit.",
	"coat":     "Tailored %s coat cut from double-faced wool.",
	"dress":    "Fluid %s dress with a bias-cut skirt.",
	"scarf":    "Lightweight %s scarf with hand-rolled edges.",
	"watch":    "Swiss-made %s watch with sapphire crystal.",
	"jewelry":  "Fine %s piece set in 18k gold.",
}

const genericDescription = "Luxury %s selected by our personal shoppers for quality and craftsmanship."
