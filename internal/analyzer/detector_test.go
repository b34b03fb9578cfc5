package analyzer

import (
	"testing"

	"stylelens/internal/keywords"
	"stylelens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tables := keywords.Default()
	freeText := NewDetector(tables, FreeTextThreshold)

	tests := []struct {
		name string
		text string
		want model.Polarity
	}{
		{"direct address", "Show me formal shirts for men", model.PolarityMale},
		{"exclusivity", "ethnic wear for women only", model.PolarityFemale},
		{"garment noun", "a silk saree with a zari border", model.PolarityFemale},
		{"no signal", "trendy sneakers", model.PolarityUnisex},
		{"balanced", "a look for men and a look for women", model.PolarityUnisex},
		{"explicit unisex wins ties", "hoodies for both men and women", model.PolarityUnisex},
		{"women does not count as men", "kurtis for women", model.PolarityFemale},
		{"empty", "", model.PolarityUnisex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, freeText.Detect(tt.text).Polarity)
		})
	}
}

func TestDetectThresholdIsInclusive(t *testing.T) {
	tables := keywords.Default()

	verdict := NewDetector(tables, FreeTextThreshold).Detect("a gift for dad")
	assert.Equal(t, 5, verdict.Scores.Male)
	assert.Equal(t, model.PolarityMale, verdict.Polarity)

	verdict = NewDetector(tables, SearchQueryThreshold).Detect("a gift for dad")
	assert.Equal(t, model.PolarityUnisex, verdict.Polarity)
	assert.Equal(t, SearchQueryThreshold, verdict.Threshold)
}

func TestDetectScoresEveryOccurrence(t *testing.T) {
	tables, err := keywords.New(keywords.Spec{
		ItemWeight: 8,
		Categories: []keywords.CategorySpec{{Name: model.CategoryFootwear, Keywords: []string{"shoe"}}},
		Signals: []model.GenderSignal{
			{Term: "men", Weight: 10, Polarity: model.PolarityMale},
			{Term: "women", Weight: 10, Polarity: model.PolarityFemale},
		},
		Items: keywords.PolarityWords{Female: []string{"saree"}},
	})
	require.NoError(t, err)

	verdict := NewDetector(tables, 5).Detect("men, men and women with sarees")
	assert.Equal(t, model.GenderScores{Male: 20, Female: 18}, verdict.Scores)
	assert.Equal(t, model.PolarityMale, verdict.Polarity)
	assert.ElementsMatch(t, []string{"men", "women", "saree"}, verdict.Matched)
}

func TestNewDetectorDefaultsThreshold(t *testing.T) {
	assert.Equal(t, FreeTextThreshold, NewDetector(keywords.Default(), 0).Threshold())
}
