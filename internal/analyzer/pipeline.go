package analyzer

import (
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
	"stylelens/internal/utils"

	"github.com/rs/zerolog"
)

const maxSearchTerms = 20

// Options configures a Pipeline
type Options struct {
	FreeTextThreshold    int
	SearchQueryThreshold int
	MinConfidence        int
	MaxCandidates        int
	MaxQueries           int
}

// Input is one pipeline invocation
type Input struct {
	Utterance   string
	Text        string
	Preferences *model.UserPreferences
	Context     model.DetectionContext
}

// Pipeline wires detection, extraction, specificity, filtering and query generation
type Pipeline struct {
	tables      *keywords.Tables
	freeText    *Detector
	searchQuery *Detector
	extractor   *Extractor
	specificity *SpecificityAnalyzer
	filter      *Filter
	queries     *QueryGenerator
	logger      zerolog.Logger
}

// New builds a pipeline over tables. recorder may be nil.
func New(tables *keywords.Tables, opts Options, recorder RejectionRecorder, logger zerolog.Logger) *Pipeline {
	if opts.SearchQueryThreshold <= 0 {
		opts.SearchQueryThreshold = SearchQueryThreshold
	}
	return &Pipeline{
		tables:      tables,
		freeText:    NewDetector(tables, opts.FreeTextThreshold),
		searchQuery: NewDetector(tables, opts.SearchQueryThreshold),
		extractor: NewExtractor(tables, ExtractorOptions{
			MinConfidence: opts.MinConfidence,
			MaxCandidates: opts.MaxCandidates,
		}, logger),
		specificity: NewSpecificityAnalyzer(tables),
		filter:      NewFilter(tables, recorder, logger),
		queries:     NewQueryGenerator(tables, opts.MaxQueries),
		logger:      logger,
	}
}

// Tables returns the keyword tables the pipeline runs on
func (p *Pipeline) Tables() *keywords.Tables {
	return p.tables
}

// Detect returns the verdict for text under the given context's threshold
func (p *Pipeline) Detect(text string, ctx model.DetectionContext) model.GenderVerdict {
	if ctx == model.ContextSearchQuery {
		return p.searchQuery.Detect(text)
	}
	return p.freeText.Detect(text)
}

// Analyze returns the specificity analysis of an utterance
func (p *Pipeline) Analyze(utterance string) model.SpecificityAnalysis {
	return p.specificity.Analyze(utterance)
}

// Extract runs extraction only
func (p *Pipeline) Extract(text string, verdict model.GenderVerdict) []model.CandidateProduct {
	return p.extractor.Extract(text, verdict)
}

// Run executes the full pipeline. It never fails: degenerate input yields an
// empty result.
func (p *Pipeline) Run(in Input) *model.PipelineResult {
	text := in.Text
	if strings.TrimSpace(text) == "" {
		text = in.Utterance
	}

	verdict := p.verdict(in, text)
	result := &model.PipelineResult{
		Verdict:    verdict,
		Candidates: []model.CandidateProduct{},
		Terms:      []model.FilteredProductTerm{},
	}
	if strings.TrimSpace(in.Utterance) != "" {
		analysis := p.specificity.Analyze(in.Utterance)
		result.Analysis = &analysis
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	candidates := p.extractor.Extract(text, verdict)
	if candidates != nil {
		result.Candidates = candidates
	}
	kept, rejected := p.filter.Candidates(candidates, verdict.Polarity, result.Analysis)
	result.Rejections = rejected

	var attrs model.Attributes
	if result.Analysis != nil {
		attrs = result.Analysis.Attributes
	}
	for _, c := range kept {
		name := p.filter.AnnotateAttributes(c.RawName, attrs)
		name = p.filter.Annotate(name, verdict.Polarity)
		result.Terms = append(result.Terms, model.FilteredProductTerm{
			Name:        name,
			CoreName:    c.RawName,
			Category:    c.Category,
			Gender:      verdict.Polarity,
			SearchTerms: p.enrich(c.SearchTerms, verdict.Polarity, in.Preferences),
			SearchQueries: p.queries.Generate(QueryInput{
				Name:        name,
				Core:        c.RawName,
				Polarity:    verdict.Polarity,
				Attributes:  attrs,
				Preferences: in.Preferences,
			}),
			Confidence: c.Confidence,
		})
	}

	result.Brands = p.extractor.Brands(text)
	result.Prices = utils.ExtractPrices(text)
	result.AnalysisConfidence = p.analysisConfidence(text, candidates)

	p.logger.Debug().
		Str("polarity", string(verdict.Polarity)).
		Int("candidates", len(candidates)).
		Int("terms", len(result.Terms)).
		Int("rejected", len(rejected)).
		Msg("pipeline run")

	return result
}

// FilterResults runs the second filtering pass over search results
func (p *Pipeline) FilterResults(
	results []model.SearchResult,
	polarity model.Polarity,
	analysis *model.SpecificityAnalysis,
) ([]model.Product, []model.Rejection) {
	return p.filter.Results(results, polarity, analysis)
}

// Reject records a rejection made by a caller, e.g. a non-marketplace result
func (p *Pipeline) Reject(name, reason, stage string) model.Rejection {
	return p.filter.Reject(name, reason, stage)
}

// CategoryQueries returns browse queries for a category
func (p *Pipeline) CategoryQueries(category model.Category, polarity model.Polarity, prefs *model.UserPreferences) []string {
	return p.queries.ForCategory(category, polarity, prefs)
}

// verdict prefers the shopper's own words; the narrative decides only when
// the utterance is neutral.
func (p *Pipeline) verdict(in Input, text string) model.GenderVerdict {
	if strings.TrimSpace(in.Utterance) == "" {
		return p.Detect(text, in.Context)
	}
	verdict := p.Detect(in.Utterance, in.Context)
	if verdict.Polarity == model.PolarityUnisex && strings.TrimSpace(in.Text) != "" {
		if fromText := p.Detect(in.Text, in.Context); fromText.Polarity.Gendered() {
			return fromText
		}
	}
	return verdict
}

// enrich adds gender terms, preference colors, styles and occasions, and budget words
func (p *Pipeline) enrich(terms []string, polarity model.Polarity, prefs *model.UserPreferences) []string {
	out := append([]string{}, terms...)
	out = append(out, p.tables.GenderSearchTerms(polarity)...)
	if prefs != nil {
		out = append(out, firstN(prefs.Colors, 2)...)
		out = append(out, firstN(prefs.Style, 2)...)
		out = append(out, firstN(prefs.Occasions, 2)...)
		if b := prefs.Budget; b != nil && b.Max > 0 {
			switch {
			case b.Max < 2000:
				out = append(out, "budget", "affordable")
			case b.Max > 5000:
				out = append(out, "premium", "designer")
			}
		}
	}
	out = uniqueStrings(out)
	if len(out) > maxSearchTerms {
		out = out[:maxSearchTerms]
	}
	return out
}

// analysisConfidence rates how much fashion content the text carried
func (p *Pipeline) analysisConfidence(text string, candidates []model.CandidateProduct) int {
	score := 0
	if len(candidates) > 0 {
		total := 0
		for _, c := range candidates {
			total += c.Confidence
		}
		score = total / len(candidates)
	}
	if len(candidates) > 5 {
		score += 10
	}
	if len(candidates) > 10 {
		score += 10
	}
	for _, line := range strings.Split(text, "\n") {
		if listItemRe.MatchString(line) {
			score += 10
			break
		}
	}

	fashion := 0
	for _, c := range p.tables.Categories {
		fashion += len(c.Terms.Hits(text))
	}
	score += min(fashion*2, 20)

	gender := len(p.tables.GenderWords(model.PolarityMale).Hits(text)) +
		len(p.tables.GenderWords(model.PolarityFemale).Hits(text))
	score += min(gender*8, 35)

	return min(score, maxConfidence)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
