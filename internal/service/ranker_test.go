package service

import (
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestRank(t *testing.T) {
	r := NewRanker(keywords.Default(), 0.5, 0.3, 0.2)

	products := []model.Product{
		{OriginalTitle: "Cotton Kurta Set", Link: "https://example.com/a", Query: "men silk kurta", PriceValue: price(4000)},
		{OriginalTitle: "Men's Red Silk Kurta", Link: "https://www.myntra.com/b", Query: "men silk kurta", PriceValue: price(1800)},
	}
	ranked := r.Rank(products, RankInput{
		Polarity:   model.PolarityMale,
		Attributes: model.Attributes{Color: "red", Material: "silk"},
		Budget:     &model.Budget{Max: 2000},
		Confidence: map[string]int{"men silk kurta": 80},
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Men's Red Silk Kurta", ranked[0].OriginalTitle)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, []string{ReasonGenderMatch, ReasonColourMatch, ReasonMaterialMatch, ReasonWithinBudget, ReasonMarketplace}, ranked[0].MatchedReasons)
	assert.Equal(t, []string{ReasonGeneralMatch}, ranked[1].MatchedReasons)

	// 0.5*1 + 0.3*0.8 + 0.2*0.9
	assert.InDelta(t, 0.92, ranked[0].Score, 0.001)
	assert.Equal(t, "Cotton Kurta Set", products[0].OriginalTitle, "input order is untouched")
}

func TestRankKeepsOrderOnTies(t *testing.T) {
	r := NewRanker(keywords.Default(), 0.5, 0.3, 0.2)
	products := []model.Product{
		{OriginalTitle: "first sneakers", Query: "sneakers"},
		{OriginalTitle: "second sneakers", Query: "sneakers"},
	}

	ranked := r.Rank(products, RankInput{Polarity: model.PolarityUnisex})
	assert.Equal(t, "first sneakers", ranked[0].OriginalTitle)
	assert.Equal(t, "second sneakers", ranked[1].OriginalTitle)
}

func TestCalculatePriceScore(t *testing.T) {
	r := NewRanker(keywords.Default(), 0.5, 0.3, 0.2)

	tests := []struct {
		name   string
		price  *float64
		budget *model.Budget
		want   float64
	}{
		{"no price", nil, &model.Budget{Max: 1000}, 0.5},
		{"no budget", price(500), nil, 1.0},
		{"empty budget", price(500), &model.Budget{}, 1.0},
		{"range midpoint", price(1500), &model.Budget{Min: 1000, Max: 2000}, 1.0},
		{"range edge", price(2000), &model.Budget{Min: 1000, Max: 2000}, 0.0},
		{"below range", price(500), &model.Budget{Min: 1000, Max: 2000}, 0.0},
		{"min only", price(1500), &model.Budget{Min: 1000}, 1.0},
		{"under min", price(500), &model.Budget{Min: 1000}, 0.0},
		{"max only", price(500), &model.Budget{Max: 1000}, 0.5},
		{"over max", price(1500), &model.Budget{Max: 1000}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.calculatePriceScore(tt.price, tt.budget), 0.0001)
		})
	}
}

func TestRelevanceScore(t *testing.T) {
	r := NewRanker(keywords.Default(), 0.5, 0.3, 0.2)

	assert.InDelta(t, 1.0, r.relevanceScore("Navy Linen Shirts", "men linen shirt buy online"), 0.0001)
	assert.InDelta(t, 0.5, r.relevanceScore("Linen Trousers", "linen shirt"), 0.0001)
	assert.InDelta(t, 0.5, r.relevanceScore("anything", "buy online under 1500"), 0.0001)
}
