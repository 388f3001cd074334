package classifier

import "strings"

// QueryParams are the search parameters derived from a classified message,
// consumed by the widget's product-search flow.
type QueryParams struct {
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
}

var knownBrands = []string{"sony", "bose", "samsung", "apple", "jbl", "sennheiser"}

var skipTokens = map[string]bool{
	"cheapest": true, "expensive": true, "the": true, "a": true, "an": true,
	"for": true, "me": true, "i": true, "want": true, "show": true, "find": true,
}

// ExtractParams derives brand/category/sort from the raw text. The last
// non-stopword token wins as category, a known brand mention overrides the
// default, and "cheapest" flips the sort order.
func ExtractParams(text string) QueryParams {
	lower := strings.ToLower(text)

	params := QueryParams{
		Brand:    "Sony",
		Category: "headphone",
		Sort:     "price_desc",
	}
	if strings.Contains(lower, "cheapest") {
		params.Sort = "price_asc"
	}

	for _, brand := range knownBrands {
		if strings.Contains(lower, brand) {
			params.Brand = strings.ToUpper(brand[:1]) + brand[1:]
			break
		}
	}

	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, ".,!?")
		if token == "" || skipTokens[token] {
			continue
		}
		params.Category = token
	}
	return params
}
