package analyzer

import (
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
	"stylelens/internal/utils"

	"github.com/rs/zerolog"
)

// Filter stages
const (
	StageCandidate = "candidate"
	StageResult    = "result"
)

// RejectionRecorder receives every rejection, e.g. to count them
type RejectionRecorder interface {
	RecordRejection(stage, reason string)
}

// Filter enforces zero-tolerance gender rules and keyword constraints
type Filter struct {
	tables   *keywords.Tables
	recorder RejectionRecorder
	logger   zerolog.Logger
}

// NewFilter creates a filter. recorder may be nil.
func NewFilter(tables *keywords.Tables, recorder RejectionRecorder, logger zerolog.Logger) *Filter {
	return &Filter{tables: tables, recorder: recorder, logger: logger}
}

// constraints are the compiled keyword lists of one analysis
type constraints struct {
	mandatory keywords.TermList
	exclude   keywords.TermList
}

func newConstraints(analysis *model.SpecificityAnalysis) *constraints {
	if analysis == nil {
		return nil
	}
	return &constraints{
		mandatory: keywords.NewTermList(analysis.MandatoryKeywords, true),
		exclude:   keywords.NewTermList(analysis.ExcludeKeywords, false),
	}
}

// Check returns the result-stage rejection reason for text, or "" when it passes.
// The offending term is returned alongside when there is one.
func (f *Filter) Check(text string, category model.Category, polarity model.Polarity, analysis *model.SpecificityAnalysis) (string, string) {
	return f.check(text, category, polarity, newConstraints(analysis), true)
}

// check applies the rules. Same-gender context is only required when
// requireGender is set; candidates get it from the gender prefix instead.
func (f *Filter) check(text string, category model.Category, polarity model.Polarity, c *constraints, requireGender bool) (string, string) {
	if polarity.Gendered() {
		opposite := polarity.Opposite()
		if w, ok := f.tables.GenderWords(opposite).First(text); ok {
			return model.RejectOppositeGender, w
		}
		if w, ok := f.tables.Items(opposite).First(text); ok {
			return model.RejectOppositeGender, w
		}
		if requireGender &&
			!f.tables.IsNeutral(category) &&
			!f.tables.GenderWords(polarity).Any(text) &&
			!f.tables.Items(polarity).Any(text) {
			return model.RejectMissingGender, ""
		}
	}

	if c != nil {
		if w, ok := c.exclude.First(text); ok {
			return model.RejectExcludedKeyword, w
		}
		if c.mandatory.Len() > 0 && !c.mandatory.Any(text) && !c.mandatory.Any(categoryPhrase(category)) {
			return model.RejectMissingMandatory, ""
		}
	}
	return "", ""
}

// Candidates keeps the candidates that pass every rule
func (f *Filter) Candidates(
	candidates []model.CandidateProduct,
	polarity model.Polarity,
	analysis *model.SpecificityAnalysis,
) ([]model.CandidateProduct, []model.Rejection) {
	c := newConstraints(analysis)
	kept := make([]model.CandidateProduct, 0, len(candidates))
	var rejected []model.Rejection

	for _, cand := range candidates {
		text := cand.RawName + " " + cand.Context
		if reason, term := f.check(text, cand.Category, polarity, c, false); reason != "" {
			rejected = append(rejected, f.reject(cand.RawName, reason, term, StageCandidate))
			continue
		}
		kept = append(kept, cand)
	}
	return kept, rejected
}

// Results applies the same rules to raw search results and annotates the survivors
func (f *Filter) Results(
	results []model.SearchResult,
	polarity model.Polarity,
	analysis *model.SpecificityAnalysis,
) ([]model.Product, []model.Rejection) {
	c := newConstraints(analysis)
	products := make([]model.Product, 0, len(results))
	var rejected []model.Rejection

	for _, r := range results {
		text := r.Title + " " + r.Snippet
		category, _ := f.tables.CategoryOf(text)
		if reason, term := f.check(text, category, polarity, c, true); reason != "" {
			rejected = append(rejected, f.reject(r.Title, reason, term, StageResult))
			continue
		}

		price := r.Price
		if price == "" {
			if found := utils.ExtractPrices(text); len(found) > 0 {
				price = found[0]
			}
		}
		product := model.Product{
			Name:          f.Annotate(r.Title, polarity),
			OriginalTitle: r.Title,
			Snippet:       r.Snippet,
			Link:          r.Link,
			Source:        r.Source,
			Price:         price,
			Category:      category,
			Gender:        polarity,
			Query:         r.Query,
		}
		if v, ok := utils.ParsePrice(price); ok {
			product.PriceValue = &v
		}
		products = append(products, product)
	}
	return products, rejected
}

// Reject records a rejection decided outside the filter rules
func (f *Filter) Reject(name, reason, stage string) model.Rejection {
	return f.reject(name, reason, "", stage)
}

func (f *Filter) reject(name, reason, term, stage string) model.Rejection {
	f.logger.Debug().
		Str("name", name).
		Str("reason", reason).
		Str("term", term).
		Str("stage", stage).
		Msg("rejected")
	if f.recorder != nil {
		f.recorder.RecordRejection(stage, reason)
	}
	return model.Rejection{Name: name, Reason: reason, Stage: stage, Term: term}
}

// Annotate prefixes name with the polarity label unless it already carries a
// gender word. Unisex names are returned unchanged.
func (f *Filter) Annotate(name string, polarity model.Polarity) string {
	label, ok := f.tables.Label(polarity)
	if !ok || !polarity.Gendered() || f.tables.HasGenderMarker(name) {
		return name
	}
	return label.Prefix + " " + name
}

// AnnotateAttributes prefixes the analysis color and material when name lacks them
func (f *Filter) AnnotateAttributes(name string, attrs model.Attributes) string {
	var prefix []string
	for _, v := range []string{attrs.Color, attrs.Material} {
		if v != "" && !keywords.NewTerm(v, false).In(name) {
			prefix = append(prefix, v)
		}
	}
	if len(prefix) == 0 {
		return name
	}
	return strings.Join(prefix, " ") + " " + name
}

// categoryPhrase spells a category as words so "ethnic" satisfies ethnic-wear
func categoryPhrase(c model.Category) string {
	return strings.ReplaceAll(string(c), "-", " ")
}
