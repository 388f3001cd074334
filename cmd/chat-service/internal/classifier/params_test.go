package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParamsDefaults(t *testing.T) {
	params := ExtractParams("show me")
	assert.Equal(t, "Sony", params.Brand)
	assert.Equal(t, "headphone", params.Category)
	assert.Equal(t, "price_desc", params.Sort)
}

func TestExtractParams(t *testing.T) {
	cases := []struct {
		text string
		want QueryParams
	}{
		{
			text: "cheapest bose speakers",
			want: QueryParams{Brand: "Bose", Category: "speakers", Sort: "price_asc"},
		},
		{
			text: "I want Samsung earbuds!",
			want: QueryParams{Brand: "Samsung", Category: "earbuds", Sort: "price_desc"},
		},
		{
			text: "find the cheapest laptop",
			want: QueryParams{Brand: "Sony", Category: "laptop", Sort: "price_asc"},
		},
		{
			// first matching brand wins, last non-stopword token is the category
			text: "sony or jbl headphones",
			want: QueryParams{Brand: "Sony", Category: "headphones", Sort: "price_desc"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractParams(tc.text))
		})
	}
}
