package analyzer

import (
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeAttributes(t *testing.T) {
	a := NewSpecificityAnalyzer(keywords.Default())

	got := a.Analyze("party dress in red silk for a wedding")

	assert.Equal(t, model.Attributes{Color: "red", Material: "silk", Occasion: "wedding"}, got.Attributes)
	assert.Equal(t, "party dress", got.SpecificProductName)
	assert.Equal(t, model.CategoryPartyWear, got.ExactCategory)
	assert.Subset(t, got.MandatoryKeywords, []string{"red", "silk", "wedding"})
	assert.Equal(t, model.IntentCategoryBrowse, got.UserIntent)
	assert.Equal(t, 100, got.SearchPrecision)
	assert.Empty(t, got.ExcludeKeywords)
}

func TestAnalyzeIntent(t *testing.T) {
	a := NewSpecificityAnalyzer(keywords.Default())

	tests := []struct {
		utterance string
		want      model.UserIntent
	}{
		{"show me formal shirts for men", model.IntentSpecificProduct},
		{"I'm looking for a navy blazer", model.IntentSpecificProduct},
		{"what should i wear to a beach wedding", model.IntentStyleAdvice},
		{"ethnic wear for women only", model.IntentCategoryBrowse},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.utterance).UserIntent)
		})
	}
}

func TestAnalyzeProductName(t *testing.T) {
	a := NewSpecificityAnalyzer(keywords.Default())

	tests := []struct {
		utterance string
		want      string
	}{
		{"show me formal shirts for men", "formal shirts"},
		{"I need a navy blazer for an interview", "blazer"},
		{"looking for a black leather jacket", "jacket"},
		{"just browsing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.utterance).SpecificProductName)
		})
	}
}

func TestAnalyzeExcludeKeywords(t *testing.T) {
	tables := keywords.Default()
	a := NewSpecificityAnalyzer(tables)

	male := a.Analyze("kurta for men")
	assert.Equal(t, tables.GenderWords(model.PolarityFemale).Words(), male.ExcludeKeywords)

	female := a.Analyze("kurti for women")
	assert.Equal(t, tables.GenderWords(model.PolarityMale).Words(), female.ExcludeKeywords)

	both := a.Analyze("matching kurtas for men and women")
	assert.Empty(t, both.ExcludeKeywords)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := NewSpecificityAnalyzer(keywords.Default())

	got := a.Analyze("   ")

	assert.Equal(t, model.IntentCategoryBrowse, got.UserIntent)
	assert.Equal(t, model.CategoryFashion, got.ExactCategory)
	assert.Zero(t, got.SearchPrecision)
	assert.NotNil(t, got.MandatoryKeywords)
	assert.NotNil(t, got.ExcludeKeywords)
}
