package analyzer

import (
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
	"stylelens/internal/utils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(opts ExtractorOptions) *Extractor {
	return NewExtractor(keywords.Default(), opts, zerolog.Nop())
}

func findCandidate(candidates []model.CandidateProduct, name string) (model.CandidateProduct, bool) {
	for _, c := range candidates {
		if c.RawName == name {
			return c, true
		}
	}
	return model.CandidateProduct{}, false
}

func TestExtractSentence(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})
	verdict := model.GenderVerdict{Polarity: model.PolarityMale}

	candidates := e.Extract("Show me formal shirts for men", verdict)

	c, ok := findCandidate(candidates, "formal shirts")
	require.True(t, ok, "expected a formal shirts candidate in %+v", candidates)
	assert.Equal(t, model.CategoryFormalWear, c.Category)
	assert.Equal(t, model.PolarityMale, c.Gender)
	assert.Contains(t, c.SearchTerms, "formal shirts")
	assert.Contains(t, c.SearchTerms, "formal wear")
}

func TestExtractStructuredList(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})
	text := "Here are a few picks:\n" +
		"1. **Linen Kurta**: breathable cotton-linen blend\n" +
		"   perfect for summer afternoons\n" +
		"2. Nehru Jacket: layer it over the kurta for evenings\n"

	candidates := e.Extract(text, model.GenderVerdict{Polarity: model.PolarityUnisex})

	c, ok := findCandidate(candidates, "Linen Kurta")
	require.True(t, ok, "expected Linen Kurta in %+v", candidates)
	assert.Equal(t, model.PassStructured, c.Pass)
	assert.Equal(t, "structured pass with description", c.ExtractionContext)
	assert.Contains(t, c.Context, "perfect for summer afternoons")
	assert.Equal(t, model.CategoryEthnicWear, c.Category)
	assert.Contains(t, c.SearchTerms, "linen")

	_, ok = findCandidate(candidates, "Nehru Jacket")
	assert.True(t, ok)
}

func TestExtractCategoryStableAcrossPasses(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})

	candidates := e.Extract("silk saree with blouse", model.GenderVerdict{Polarity: model.PolarityFemale})

	require.NotEmpty(t, candidates)
	passes := map[model.PassKind]bool{}
	for _, c := range candidates {
		passes[c.Pass] = true
		assert.Equal(t, model.CategoryEthnicWear, c.Category, "candidate %q from %s pass", c.RawName, c.Pass)
	}
	assert.True(t, passes[model.PassNounPhrase])
}

func TestExtractDeduplicatesAndOrders(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})
	text := "- Silk sarees for the wedding season\n" +
		"Silk sarees are trending this year.\n" +
		"Pair silk sarees with gold jhumkas and a red clutch."

	candidates := e.Extract(text, model.GenderVerdict{Polarity: model.PolarityFemale})
	require.NotEmpty(t, candidates)

	seen := map[string]bool{}
	for i, c := range candidates {
		key := utils.NormalizeKey(c.RawName)
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
		if i > 0 {
			assert.GreaterOrEqual(t, candidates[i-1].Confidence, c.Confidence)
		}
		assert.LessOrEqual(t, c.Confidence, 95)
		assert.GreaterOrEqual(t, c.Confidence, 30)
	}
}

func TestExtractCapsCandidates(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{MaxCandidates: 2})
	text := "1. Silk saree\n2. Cotton kurti\n3. Linen dupatta\n4. Velvet lehenga\n5. Chiffon gown"

	candidates := e.Extract(text, model.GenderVerdict{Polarity: model.PolarityFemale})
	assert.Len(t, candidates, 2)
}

func TestExtractIgnoresIrrelevantText(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})

	assert.Empty(t, e.Extract("", model.GenderVerdict{}))
	assert.Empty(t, e.Extract("   \n  ", model.GenderVerdict{}))
	assert.Empty(t, e.Extract("Hello there, how are you doing today?", model.GenderVerdict{}))
}

func TestExtractBrands(t *testing.T) {
	e := newTestExtractor(ExtractorOptions{})
	assert.Equal(t, []string{"zara", "h&m"}, e.Brands("Zara and H&M both stock linen shirts; zara is pricier"))
}

func TestTrimPhrase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a red saree for the wedding", "red saree"},
		{"the linen shirts", "linen shirts"},
		{"season linen shirts", "linen shirts"},
		{"kurta with churidar", "kurta"},
		{"in", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimPhrase(tt.in), tt.in)
	}
}
