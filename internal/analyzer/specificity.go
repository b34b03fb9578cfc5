package analyzer

import (
	"regexp"
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
)

// Search precision increments
const (
	intentPoints        = 30
	productMatchPoints  = 25
	variationPoints     = 20
	colorPoints         = 15
	materialPoints      = 15
	stylePoints         = 10
	occasionPoints      = 10
	patternPoints       = 10
	brandPoints         = 15
	namePoints          = 20
	manyAttributesBonus = 15
	manyMandatoryBonus  = 10
	maxPrecision        = 100
)

// SpecificityAnalyzer measures how precisely an utterance names a product
type SpecificityAnalyzer struct {
	tables   *keywords.Tables
	families []*regexp.Regexp
}

// NewSpecificityAnalyzer compiles the product-name pattern families from tables
func NewSpecificityAnalyzer(tables *keywords.Tables) *SpecificityAnalyzer {
	const phrase = `([a-z][a-z' -]+?)`
	const tail = `(?:\s+(?:in|with|featuring|for|from|under)\b|\s*$)`

	families := []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:looking for|look for|want|need|find|show|buy|get)(?:\s+me)?\s+(?:(?:a|an|some|the)\s+)?` + phrase + tail),
		regexp.MustCompile(`(?i)\b((?:casual|formal|party|wedding|ethnic|western|office|festive|evening)\s+[a-z][a-z' -]+)`),
	}
	for _, list := range []keywords.TermList{tables.Colors, tables.Materials, tables.Brands} {
		if list.Len() == 0 {
			continue
		}
		families = append(families, regexp.MustCompile(`(?i)\b`+list.Alternation()+`\s+([a-z][a-z' -]+)`))
	}
	families = append(families, regexp.MustCompile(`(?i)^\s*`+phrase+`\s+(?:in|with|featuring)\b`))

	return &SpecificityAnalyzer{tables: tables, families: families}
}

// Analyze builds the specificity analysis of a shopper utterance
func (a *SpecificityAnalyzer) Analyze(utterance string) model.SpecificityAnalysis {
	text := strings.ToLower(strings.TrimSpace(utterance))
	analysis := model.SpecificityAnalysis{
		UserIntent:        model.IntentCategoryBrowse,
		ExactCategory:     model.CategoryFashion,
		MandatoryKeywords: []string{},
		ExcludeKeywords:   []string{},
	}
	if text == "" {
		return analysis
	}

	precision := 0
	switch {
	case a.tables.IntentPhrases.Any(text):
		analysis.UserIntent = model.IntentSpecificProduct
		precision += intentPoints
	case a.tables.AdvicePhrases.Any(text):
		analysis.UserIntent = model.IntentStyleAdvice
	}

	if name := a.productName(text); name != "" {
		analysis.SpecificProductName = name
		precision += productMatchPoints
	}

	analysis.ExactCategory, _ = a.tables.CategoryOf(text)

	var mandatory []string
	variationFound := false
	for _, group := range a.tables.Products {
		v, ok := group.Variations.First(text)
		if !ok {
			continue
		}
		mandatory = append(mandatory, v)
		if !variationFound {
			variationFound = true
			precision += variationPoints
		}
		if analysis.SpecificProductName == "" {
			analysis.SpecificProductName = v
		}
	}

	attrs := &analysis.Attributes
	pick := func(list keywords.TermList, dst *string, points int) {
		if v, ok := list.First(text); ok {
			*dst = v
			mandatory = append(mandatory, v)
			precision += points
		}
	}
	pick(a.tables.Colors, &attrs.Color, colorPoints)
	pick(a.tables.Materials, &attrs.Material, materialPoints)
	pick(a.tables.Styles, &attrs.Style, stylePoints)
	pick(a.tables.Occasions, &attrs.Occasion, occasionPoints)
	pick(a.tables.Patterns, &attrs.Pattern, patternPoints)
	pick(a.tables.Brands, &attrs.Brand, brandPoints)
	if fit, ok := a.tables.Fits.First(text); ok {
		attrs.Fit = fit
	}

	male := a.tables.GenderWords(model.PolarityMale).Any(text)
	female := a.tables.GenderWords(model.PolarityFemale).Any(text)
	switch {
	case male && !female:
		analysis.ExcludeKeywords = a.tables.GenderWords(model.PolarityFemale).Words()
	case female && !male:
		analysis.ExcludeKeywords = a.tables.GenderWords(model.PolarityMale).Words()
	}

	analysis.MandatoryKeywords = uniqueStrings(mandatory)

	if analysis.SpecificProductName != "" {
		precision += namePoints
	}
	if attrs.Count() > 2 {
		precision += manyAttributesBonus
	}
	if len(analysis.MandatoryKeywords) > 3 {
		precision += manyMandatoryBonus
	}
	analysis.SearchPrecision = min(precision, maxPrecision)

	return analysis
}

// productName returns the longest product phrase any pattern family yields
func (a *SpecificityAnalyzer) productName(text string) string {
	best := ""
	for _, re := range a.families {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := a.stripAttributes(trimPhrase(m[1]))
			if !a.namesProduct(name) {
				continue
			}
			if len(name) > len(best) {
				best = name
			}
		}
	}
	return best
}

// stripAttributes drops leading color, material, pattern and fit words
func (a *SpecificityAnalyzer) stripAttributes(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 1 {
		w := words[0]
		if a.tables.Colors.Contains(w) || a.tables.Materials.Contains(w) ||
			a.tables.Patterns.Contains(w) || a.tables.Fits.Contains(w) {
			words = words[1:]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

func (a *SpecificityAnalyzer) namesProduct(phrase string) bool {
	if phrase == "" {
		return false
	}
	if a.tables.ProductNouns.Any(phrase) {
		return true
	}
	for _, g := range a.tables.Products {
		if g.Variations.Any(phrase) {
			return true
		}
	}
	return false
}
