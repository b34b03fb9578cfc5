package service

import (
	"math"
	"sort"
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
)

// Match reason constants
const (
	ReasonGenderMatch   = "Gender match"
	ReasonColourMatch   = "Colour match"
	ReasonMaterialMatch = "Material match"
	ReasonWithinBudget  = "Within budget"
	ReasonMarketplace   = "Marketplace listing"
	ReasonGeneralMatch  = "General match"
)

// queryNoise are query words that say nothing about the product itself
var queryNoise = map[string]bool{
	"buy": true, "online": true, "india": true, "shopping": true, "price": true,
	"under": true, "for": true, "men": true, "women": true, "the": true, "and": true,
}

// RankInput carries what the ranker knows about the run
type RankInput struct {
	Polarity   model.Polarity
	Attributes model.Attributes
	Budget     *model.Budget
	Colors     []string
	// Confidence maps a search query to the confidence of the term that produced it.
	Confidence map[string]int
}

// Ranker handles ranking and scoring of filtered products
type Ranker struct {
	tables           *keywords.Tables
	weightRelevance  float64
	weightConfidence float64
	weightBudget     float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(tables *keywords.Tables, weightRelevance, weightConfidence, weightBudget float64) *Ranker {
	return &Ranker{
		tables:           tables,
		weightRelevance:  weightRelevance,
		weightConfidence: weightConfidence,
		weightBudget:     weightBudget,
	}
}

// Rank scores products and sorts them best first. Equal scores keep search order.
func (r *Ranker) Rank(products []model.Product, in RankInput) []model.Product {
	ranked := make([]model.Product, len(products))
	copy(ranked, products)

	for i := range ranked {
		p := &ranked[i]
		text := p.OriginalTitle + " " + p.Snippet

		relevance := r.relevanceScore(text, p.Query)
		confidence := r.confidenceScore(p.Query, in.Confidence)
		priceScore := r.calculatePriceScore(p.PriceValue, in.Budget)

		p.Score = round2((r.weightRelevance * relevance) +
			(r.weightConfidence * confidence) +
			(r.weightBudget * priceScore))
		p.MatchedReasons = r.generateMatchedReasons(*p, text, in, priceScore)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// relevanceScore is the share of meaningful query words found in text
func (r *Ranker) relevanceScore(text, query string) float64 {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if queryNoise[w] || strings.IndexFunc(w, isDigit) >= 0 {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return 0.5
	}

	hits := 0
	for _, w := range words {
		if keywords.NewTerm(w, true).In(text) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// confidenceScore normalizes the extraction confidence of the term behind query
func (r *Ranker) confidenceScore(query string, confidence map[string]int) float64 {
	c, ok := confidence[query]
	if !ok {
		return 0.5
	}
	return math.Min(float64(c)/100, 1)
}

// calculatePriceScore calculates how well the price matches the shopper's budget
func (r *Ranker) calculatePriceScore(price *float64, budget *model.Budget) float64 {
	if price == nil {
		return 0.5 // Neutral score if no price
	}

	if budget == nil || (budget.Min <= 0 && budget.Max <= 0) {
		return 1.0 // Full score if no budget
	}

	actualPrice := *price

	if budget.Min > 0 && budget.Max > 0 {
		if actualPrice < budget.Min || actualPrice > budget.Max {
			return 0.0
		}

		midpoint := (budget.Min + budget.Max) / 2
		priceRange := budget.Max - budget.Min
		if priceRange == 0 {
			return 1.0
		}

		distance := math.Abs(actualPrice - midpoint)
		score := 1.0 - (distance / (priceRange / 2))
		if score < 0 {
			score = 0
		}
		return score
	}

	if budget.Min > 0 {
		if actualPrice < budget.Min {
			return 0.0
		}
		return 1.0
	}

	if actualPrice > budget.Max {
		return 0.0
	}
	// Closer to max is better
	return math.Min(actualPrice/budget.Max, 1.0)
}

// generateMatchedReasons explains why a product ranked where it did
func (r *Ranker) generateMatchedReasons(p model.Product, text string, in RankInput, priceScore float64) []string {
	reasons := []string{}

	if in.Polarity.Gendered() && (r.tables.GenderWords(in.Polarity).Any(text) || r.tables.Items(in.Polarity).Any(text)) {
		reasons = append(reasons, ReasonGenderMatch)
	}

	colors := in.Colors
	if in.Attributes.Color != "" {
		colors = append([]string{in.Attributes.Color}, colors...)
	}
	for _, c := range colors {
		if keywords.NewTerm(c, false).In(text) {
			reasons = append(reasons, ReasonColourMatch)
			break
		}
	}

	if in.Attributes.Material != "" && keywords.NewTerm(in.Attributes.Material, false).In(text) {
		reasons = append(reasons, ReasonMaterialMatch)
	}

	if in.Budget != nil && p.PriceValue != nil && priceScore > 0.8 {
		reasons = append(reasons, ReasonWithinBudget)
	}

	if r.tables.IsMarketplace(p.Link) {
		reasons = append(reasons, ReasonMarketplace)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
