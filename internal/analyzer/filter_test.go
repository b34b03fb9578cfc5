package analyzer

import (
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	counts map[string]int
}

func (r *countingRecorder) RecordRejection(stage, reason string) {
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[stage+"/"+reason]++
}

func newTestFilter(recorder RejectionRecorder) *Filter {
	return NewFilter(keywords.Default(), recorder, zerolog.Nop())
}

func TestCheck(t *testing.T) {
	f := newTestFilter(nil)

	tests := []struct {
		name     string
		text     string
		category model.Category
		polarity model.Polarity
		analysis *model.SpecificityAnalysis
		reason   string
		term     string
	}{
		{"opposite gender word", "Women's Formal Shirt", model.CategoryFormalWear, model.PolarityMale, nil, model.RejectOppositeGender, "women"},
		{"opposite gender item", "silk sherwani with stole", model.CategoryEthnicWear, model.PolarityFemale, nil, model.RejectOppositeGender, "sherwani"},
		{"male item satisfies gender context", "Formal Shirt — Blue, Slim Fit", model.CategoryFormalWear, model.PolarityMale, nil, "", ""},
		{"missing gender context", "blue denim jeans", model.CategoryWesternWear, model.PolarityMale, nil, model.RejectMissingGender, ""},
		{"neutral category needs no context", "leather wallet", model.CategoryAccessories, model.PolarityMale, nil, "", ""},
		{"unisex skips gender rules", "saree and sherwani combo", model.CategoryEthnicWear, model.PolarityUnisex, nil, "", ""},
		{
			"excluded keyword", "zara linen top", model.CategoryWesternWear, model.PolarityUnisex,
			&model.SpecificityAnalysis{ExcludeKeywords: []string{"zara"}}, model.RejectExcludedKeyword, "zara",
		},
		{
			"missing mandatory keyword", "blue linen top", model.CategoryWesternWear, model.PolarityUnisex,
			&model.SpecificityAnalysis{MandatoryKeywords: []string{"red", "silk"}}, model.RejectMissingMandatory, "",
		},
		{
			"one mandatory keyword is enough", "red cotton tops", model.CategoryWesternWear, model.PolarityUnisex,
			&model.SpecificityAnalysis{MandatoryKeywords: []string{"silk", "top"}}, "", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, term := f.Check(tt.text, tt.category, tt.polarity, tt.analysis)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.term, term)
		})
	}
}

func TestCheckRejectsOppositeExclusiveItems(t *testing.T) {
	tables := keywords.Default()
	f := newTestFilter(nil)
	d := NewDetector(tables, FreeTextThreshold)

	for _, text := range []string{"kurta for men", "a gift for my husband", "men only grooming kit"} {
		require.Equal(t, model.PolarityMale, d.Detect(text).Polarity, text)
		for _, item := range tables.Items(model.PolarityFemale).Words() {
			reason, _ := f.Check("classic "+item, model.CategoryEthnicWear, model.PolarityMale, nil)
			assert.Equal(t, model.RejectOppositeGender, reason, item)
		}
	}
	for _, item := range tables.Items(model.PolarityMale).Words() {
		reason, _ := f.Check("classic "+item, model.CategoryEthnicWear, model.PolarityFemale, nil)
		assert.Equal(t, model.RejectOppositeGender, reason, item)
	}
}

func TestCandidates(t *testing.T) {
	recorder := &countingRecorder{}
	f := newTestFilter(recorder)

	candidates := []model.CandidateProduct{
		{RawName: "Banarasi silk saree", Category: model.CategoryEthnicWear},
		{RawName: "Sherwani", Category: model.CategoryEthnicWear},
		{RawName: "Dhoti", Category: model.CategoryEthnicWear},
		{RawName: "Gold jhumkas", Category: model.CategoryAccessories},
	}

	kept, rejected := f.Candidates(candidates, model.PolarityFemale, nil)

	require.Len(t, kept, 2)
	assert.Equal(t, "Banarasi silk saree", kept[0].RawName)
	assert.Equal(t, "Gold jhumkas", kept[1].RawName)
	require.Len(t, rejected, 2)
	for _, r := range rejected {
		assert.Equal(t, model.RejectOppositeGender, r.Reason)
		assert.Equal(t, StageCandidate, r.Stage)
	}
	assert.Equal(t, 2, recorder.counts["candidate/opposite_gender"])
}

func TestCandidatesRelyOnGenderPrefix(t *testing.T) {
	f := newTestFilter(nil)

	tests := []struct {
		polarity model.Polarity
		names    []string
	}{
		{model.PolarityMale, []string{"Linen Shirt", "Chinos", "Navy Blazer"}},
		{model.PolarityFemale, []string{"Tailored Trousers", "Linen Shirt"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.polarity), func(t *testing.T) {
			var candidates []model.CandidateProduct
			for _, name := range tt.names {
				candidates = append(candidates, model.CandidateProduct{RawName: name, Category: model.CategoryWesternWear})
			}

			kept, rejected := f.Candidates(candidates, tt.polarity, nil)
			assert.Empty(t, rejected)
			assert.Len(t, kept, len(tt.names))
		})
	}

	// results still need their own gender context
	_, rejected := f.Results([]model.SearchResult{{Title: "Slim Fit Chinos"}}, model.PolarityMale, nil)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.RejectMissingGender, rejected[0].Reason)
}

func TestResults(t *testing.T) {
	f := newTestFilter(nil)
	results := []model.SearchResult{
		{Title: "Women's Formal Shirt", Link: "https://www.myntra.com/1"},
		{Title: "Formal Shirt — Blue, Slim Fit", Snippet: "Now at ₹1,299", Link: "https://www.ajio.com/2", Query: "formal shirts for men"},
		{Title: "Men's Oxford Formal Shirt", Price: "Rs. 899", Link: "https://www.amazon.in/3"},
	}

	products, rejected := f.Results(results, model.PolarityMale, nil)

	require.Len(t, rejected, 1)
	assert.Equal(t, "Women's Formal Shirt", rejected[0].Name)
	assert.Equal(t, StageResult, rejected[0].Stage)

	require.Len(t, products, 2)
	assert.Equal(t, "Men's Formal Shirt — Blue, Slim Fit", products[0].Name)
	assert.Equal(t, "Formal Shirt — Blue, Slim Fit", products[0].OriginalTitle)
	assert.Equal(t, model.CategoryFormalWear, products[0].Category)
	assert.Equal(t, "₹1,299", products[0].Price)
	require.NotNil(t, products[0].PriceValue)
	assert.Equal(t, 1299.0, *products[0].PriceValue)
	assert.Equal(t, "formal shirts for men", products[0].Query)

	assert.Equal(t, "Men's Oxford Formal Shirt", products[1].Name)
	require.NotNil(t, products[1].PriceValue)
	assert.Equal(t, 899.0, *products[1].PriceValue)
}

func TestAnnotate(t *testing.T) {
	f := newTestFilter(nil)

	tests := []struct {
		name     string
		polarity model.Polarity
		want     string
	}{
		{"Kurta", model.PolarityMale, "Men's Kurta"},
		{"Men's Kurta", model.PolarityMale, "Men's Kurta"},
		{"Anarkali suit for women", model.PolarityFemale, "Anarkali suit for women"},
		{"Sneakers", model.PolarityUnisex, "Sneakers"},
		{"Lehenga", model.PolarityFemale, "Women's Lehenga"},
	}
	for _, tt := range tests {
		once := f.Annotate(tt.name, tt.polarity)
		assert.Equal(t, tt.want, once)
		assert.Equal(t, once, f.Annotate(once, tt.polarity), "annotating %q twice", tt.name)
	}
}

func TestAnnotateAttributes(t *testing.T) {
	f := newTestFilter(nil)

	attrs := model.Attributes{Color: "red", Material: "silk", Occasion: "wedding"}
	assert.Equal(t, "red silk party dress", f.AnnotateAttributes("party dress", attrs))
	assert.Equal(t, "red silk saree", f.AnnotateAttributes("silk saree", attrs))
	assert.Equal(t, "Red Silk Saree", f.AnnotateAttributes("Red Silk Saree", attrs))
	assert.Equal(t, "kurta", f.AnnotateAttributes("kurta", model.Attributes{}))
}
