package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
	"stylelens/internal/utils"

	"github.com/rs/zerolog"
)

// Confidence scoring
const (
	baseConfidence     = 50
	categoryHitBonus   = 15
	maxCategoryBonus   = 40
	brandBonus         = 15
	colorBonus         = 10
	fabricBonus        = 10
	genderTermBonus    = 30
	genderItemBonus    = 25
	maxConfidence      = 95
	defaultMinConf     = 30
	defaultMaxProducts = 30
)

var passBonus = map[model.PassKind]int{
	model.PassStructured: 20,
	model.PassNumbered:   15,
	model.PassHeading:    10,
}

var (
	nameNoiseRe = regexp.MustCompile(`^[\s\-•*+#>\d.)]+|[\s:;,.!?\-]+$`)
	stopwords   = map[string]bool{
		"the": true, "and": true, "for": true, "with": true, "you": true, "your": true,
		"this": true, "that": true, "are": true, "can": true, "will": true, "also": true,
	}
)

// ExtractorOptions tunes candidate admission
type ExtractorOptions struct {
	MinConfidence int
	MaxCandidates int
}

// Extractor runs the extraction passes and scores what they find
type Extractor struct {
	tables        *keywords.Tables
	passes        []Pass
	minConfidence int
	maxCandidates int
	logger        zerolog.Logger
}

// NewExtractor creates an extractor with the default passes
func NewExtractor(tables *keywords.Tables, opts ExtractorOptions, logger zerolog.Logger) *Extractor {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = defaultMinConf
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = defaultMaxProducts
	}
	return &Extractor{
		tables:        tables,
		passes:        DefaultPasses(tables),
		minConfidence: opts.MinConfidence,
		maxCandidates: opts.MaxCandidates,
		logger:        logger,
	}
}

// Extract returns deduplicated candidates ordered by confidence
func (e *Extractor) Extract(text string, verdict model.GenderVerdict) []model.CandidateProduct {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	cleaned := utils.CleanMarkdown(text)

	var candidates []model.CandidateProduct
	for _, pass := range e.passes {
		mentions := pass.Find(cleaned)
		kept := 0
		for _, m := range mentions {
			if c, ok := e.candidate(m, verdict); ok {
				candidates = append(candidates, c)
				kept++
			}
		}
		e.logger.Debug().
			Str("pass", string(pass.Kind())).
			Int("mentions", len(mentions)).
			Int("kept", kept).
			Msg("extraction pass")
	}

	return e.dedupe(candidates)
}

// Brands returns the distinct brand names mentioned in text
func (e *Extractor) Brands(text string) []string {
	return e.tables.Brands.Hits(text)
}

func (e *Extractor) candidate(m Mention, verdict model.GenderVerdict) (model.CandidateProduct, bool) {
	name := cleanName(m.Name)
	if !validName(name) {
		return model.CandidateProduct{}, false
	}
	matched := m.Matched
	if matched == "" {
		matched = name
	}
	if !e.relevant(matched) {
		return model.CandidateProduct{}, false
	}

	combined := name + " " + m.Context
	category, hits := e.tables.CategoryOf(combined)

	conf := baseConfidence + min(hits*categoryHitBonus, maxCategoryBonus) + passBonus[m.Pass]
	brands := e.tables.Brands.Hits(combined)
	colors := e.tables.Colors.Hits(combined)
	fabrics := e.tables.Materials.Hits(combined)
	if len(brands) > 0 {
		conf += brandBonus
	}
	if len(colors) > 0 {
		conf += colorBonus
	}
	if len(fabrics) > 0 {
		conf += fabricBonus
	}
	if e.hasGenderTerm(combined, verdict.Polarity) {
		conf += genderTermBonus
	}
	if e.hasGenderItem(combined, verdict.Polarity) {
		conf += genderItemBonus
	}
	conf = min(conf, maxConfidence)
	if conf < e.minConfidence {
		return model.CandidateProduct{}, false
	}

	terms := []string{strings.ToLower(name)}
	terms = append(terms, e.tables.CategoryKeywords(category).Hits(combined)...)
	terms = append(terms, colors...)
	terms = append(terms, fabrics...)
	terms = append(terms, brands...)
	if category != model.CategoryFashion {
		terms = append(terms, categoryPhrase(category))
	}

	extractionContext := fmt.Sprintf("%s pass", m.Pass)
	if strings.TrimSpace(m.Context) != "" && m.Pass != model.PassSentence && m.Pass != model.PassNounPhrase {
		extractionContext += " with description"
	}

	return model.CandidateProduct{
		RawName:           name,
		Category:          category,
		SearchTerms:       uniqueStrings(terms),
		Confidence:        conf,
		Gender:            verdict.Polarity,
		ExtractionContext: extractionContext,
		Context:           strings.TrimSpace(m.Context),
		Pass:              m.Pass,
	}, true
}

// relevant is the gate every mention must pass: some category keyword,
// style descriptor, color or fabric in the matched text.
func (e *Extractor) relevant(text string) bool {
	return e.tables.AnyCategoryKeyword(text) ||
		e.tables.StyleDescriptors.Any(text) ||
		e.tables.Colors.Any(text) ||
		e.tables.Materials.Any(text)
}

func (e *Extractor) hasGenderTerm(text string, p model.Polarity) bool {
	return e.tables.GenderWords(p).Any(text)
}

func (e *Extractor) hasGenderItem(text string, p model.Polarity) bool {
	if p.Gendered() {
		return e.tables.Items(p).Any(text)
	}
	return e.tables.Items(model.PolarityMale).Any(text) || e.tables.Items(model.PolarityFemale).Any(text)
}

// dedupe merges candidates with the same normalized name, keeping the most
// confident one, then orders by confidence and caps the list.
func (e *Extractor) dedupe(candidates []model.CandidateProduct) []model.CandidateProduct {
	index := map[string]int{}
	var out []model.CandidateProduct
	for _, c := range candidates {
		key := utils.NormalizeKey(c.RawName)
		if len(key) < 3 {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		merged := append(append([]string{}, out[i].SearchTerms...), c.SearchTerms...)
		if c.Confidence > out[i].Confidence {
			out[i] = c
		}
		out[i].SearchTerms = uniqueStrings(merged)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > e.maxCandidates {
		out = out[:e.maxCandidates]
	}
	return out
}

func cleanName(s string) string {
	s = utils.CollapseSpaces(s)
	for {
		trimmed := nameNoiseRe.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	if r := []rune(s); len(r) > 100 {
		s = strings.TrimSpace(string(r[:100]))
	}
	return s
}

func validName(name string) bool {
	if n := len(name); n < 3 || n > 100 {
		return false
	}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if len(w) >= 3 && !stopwords[w] {
			return true
		}
	}
	return false
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
