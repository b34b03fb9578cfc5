package analyzer

import (
	"strings"
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() *Pipeline {
	return New(keywords.Default(), Options{}, nil, zerolog.Nop())
}

func findTerm(terms []model.FilteredProductTerm, core string) (model.FilteredProductTerm, bool) {
	for _, t := range terms {
		if strings.EqualFold(t.CoreName, core) {
			return t, true
		}
	}
	return model.FilteredProductTerm{}, false
}

func TestRunFormalShirtsForMen(t *testing.T) {
	p := newTestPipeline()

	result := p.Run(Input{Utterance: "Show me formal shirts for men"})

	assert.Equal(t, model.PolarityMale, result.Verdict.Polarity)
	assert.GreaterOrEqual(t, result.Verdict.Scores.Male, 15)
	require.NotNil(t, result.Analysis)

	term, ok := findTerm(result.Terms, "formal shirts")
	require.True(t, ok, "terms: %+v", result.Terms)
	assert.Equal(t, "Men's formal shirts", term.Name)
	assert.Equal(t, model.CategoryFormalWear, term.Category)
	assert.Contains(t, term.SearchTerms, "for men")
	assert.Contains(t, term.SearchQueries, "men formal shirts")

	products, rejected := p.FilterResults([]model.SearchResult{
		{Title: "Women's Formal Shirt"},
		{Title: "Formal Shirt — Blue, Slim Fit"},
	}, result.Verdict.Polarity, result.Analysis)
	require.Len(t, products, 1)
	assert.Equal(t, "Men's Formal Shirt — Blue, Slim Fit", products[0].Name)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.RejectOppositeGender, rejected[0].Reason)
}

func TestRunWomenOnlyEthnicWear(t *testing.T) {
	p := newTestPipeline()
	narrative := "1. Sherwani: a regal choice for weddings\n" +
		"2. Banarasi Silk Saree: rich zari work for women\n" +
		"3. Dhoti set: classic and comfortable\n"

	result := p.Run(Input{Utterance: "ethnic wear for women only", Text: narrative})

	assert.Equal(t, model.PolarityFemale, result.Verdict.Polarity)
	assert.Zero(t, result.Verdict.Scores.Male)
	assert.GreaterOrEqual(t, result.Verdict.Scores.Female, 20)

	for _, term := range result.Terms {
		lower := strings.ToLower(term.Name)
		assert.NotContains(t, lower, "sherwani")
		assert.NotContains(t, lower, "dhoti")
	}
	_, ok := findTerm(result.Terms, "Banarasi Silk Saree")
	assert.True(t, ok, "terms: %+v", result.Terms)

	rejectedNames := map[string]string{}
	for _, r := range result.Rejections {
		rejectedNames[r.Name] = r.Reason
	}
	assert.Equal(t, model.RejectOppositeGender, rejectedNames["Sherwani"])
}

func TestRunKeepsEverydayGarments(t *testing.T) {
	p := newTestPipeline()

	result := p.Run(Input{
		Utterance: "summer outfits for men",
		Text: "1. Linen Shirt: breathable and light for hot days\n" +
			"2. Chinos: pair them with loafers\n" +
			"3. White Sneakers: clean and casual\n",
	})
	require.Equal(t, model.PolarityMale, result.Verdict.Polarity)
	_, ok := findTerm(result.Terms, "Linen Shirt")
	assert.True(t, ok, "terms: %+v", result.Terms)
	for _, r := range result.Rejections {
		assert.NotEqual(t, model.RejectMissingGender, r.Reason, r.Name)
	}

	result = p.Run(Input{
		Utterance: "office wear for women",
		Text:      "1. Tailored Trousers: sharp lines for the office\n",
	})
	require.Equal(t, model.PolarityFemale, result.Verdict.Polarity)
	_, ok = findTerm(result.Terms, "Tailored Trousers")
	assert.True(t, ok, "terms: %+v", result.Terms)
}

func TestRunTrendySneakers(t *testing.T) {
	p := newTestPipeline()

	result := p.Run(Input{Utterance: "trendy sneakers"})

	assert.Equal(t, model.PolarityUnisex, result.Verdict.Polarity)
	term, ok := findTerm(result.Terms, "sneakers")
	require.True(t, ok, "terms: %+v", result.Terms)
	assert.Equal(t, "sneakers", term.Name)
	assert.Equal(t, model.CategoryFootwear, term.Category)
	assert.Contains(t, term.SearchQueries, "sneakers buy online")
	assert.Contains(t, term.SearchQueries, "sneakers shopping India")
	for _, q := range term.SearchQueries {
		assert.NotContains(t, strings.ToLower(q), "men", q)
	}
}

func TestRunPartyDress(t *testing.T) {
	p := newTestPipeline()

	result := p.Run(Input{Utterance: "party dress in red silk for a wedding"})

	require.NotNil(t, result.Analysis)
	assert.Equal(t, model.Attributes{Color: "red", Material: "silk", Occasion: "wedding"}, result.Analysis.Attributes)
	assert.Equal(t, model.CategoryPartyWear, result.Analysis.ExactCategory)

	term, ok := findTerm(result.Terms, "party dress")
	require.True(t, ok, "terms: %+v", result.Terms)
	assert.Equal(t, "Women's red silk party dress", term.Name)
	assert.Contains(t, term.SearchQueries, "red silk party dress")
	assert.Contains(t, term.SearchQueries, "party dress for wedding")
}

func TestRunVerdictFallsBackToNarrative(t *testing.T) {
	p := newTestPipeline()

	neutral := p.Run(Input{Utterance: "outfit ideas for diwali", Text: "A silk kurta for him pairs well with mojaris."})
	assert.Equal(t, model.PolarityMale, neutral.Verdict.Polarity)

	explicit := p.Run(Input{Utterance: "kurti for women", Text: "A silk kurta for him pairs well with mojaris."})
	assert.Equal(t, model.PolarityFemale, explicit.Verdict.Polarity)
}

func TestRunEnrichment(t *testing.T) {
	p := newTestPipeline()
	prefs := &model.UserPreferences{
		Colors:    []string{"navy", "grey", "olive"},
		Occasions: []string{"office"},
		Budget:    &model.Budget{Max: 1500},
	}

	result := p.Run(Input{Utterance: "show me linen shirts for men", Preferences: prefs})

	term, ok := findTerm(result.Terms, "linen shirts")
	require.True(t, ok, "terms: %+v", result.Terms)
	assert.Contains(t, term.SearchTerms, "navy")
	assert.Contains(t, term.SearchTerms, "grey")
	assert.NotContains(t, term.SearchTerms, "olive")
	assert.Contains(t, term.SearchTerms, "office")
	assert.Contains(t, term.SearchTerms, "affordable")
	assert.LessOrEqual(t, len(term.SearchTerms), maxSearchTerms)
	assert.Contains(t, term.SearchQueries, "linen shirts under 1500")
}

func TestRunDegenerateInput(t *testing.T) {
	p := newTestPipeline()

	result := p.Run(Input{})

	assert.Equal(t, model.PolarityUnisex, result.Verdict.Polarity)
	assert.Nil(t, result.Analysis)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Terms)
	assert.Zero(t, result.AnalysisConfidence)
}

func TestRunCollectsBrandsAndPrices(t *testing.T) {
	p := newTestPipeline()
	narrative := "- Zara linen shirt for men at ₹2,990\n- Levi's slim fit jeans for men, Rs. 1,799\n"

	result := p.Run(Input{Utterance: "casual outfit for men", Text: narrative})

	assert.Equal(t, []string{"zara", "levi's"}, result.Brands)
	assert.Equal(t, []string{"₹2,990", "Rs. 1,799"}, result.Prices)
	assert.Greater(t, result.AnalysisConfidence, 0)
	assert.LessOrEqual(t, result.AnalysisConfidence, 95)
}

func TestDetectContexts(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.PolarityMale, p.Detect("a gift for dad", model.ContextFreeText).Polarity)
	assert.Equal(t, model.PolarityUnisex, p.Detect("a gift for dad", model.ContextSearchQuery).Polarity)
	assert.Equal(t, SearchQueryThreshold, p.Detect("", model.ContextSearchQuery).Threshold)
}
