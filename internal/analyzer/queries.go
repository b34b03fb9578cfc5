package analyzer

import (
	"strconv"
	"strings"

	"stylelens/internal/keywords"
	"stylelens/internal/model"
)

const (
	defaultMaxQueries         = 25
	maxCategoryQueries        = 30
	categoryKeywordsPerSearch = 5
	platformsPerTerm          = 2
)

// QueryInput is one product term to build search queries for
type QueryInput struct {
	// Name is the annotated display name.
	Name string
	// Core is the bare product phrase attribute variants are built around.
	Core        string
	Polarity    model.Polarity
	Attributes  model.Attributes
	Preferences *model.UserPreferences
}

// QueryGenerator expands product terms into e-commerce search queries
type QueryGenerator struct {
	tables     *keywords.Tables
	maxQueries int
}

// NewQueryGenerator creates a generator capped at maxQueries per term
func NewQueryGenerator(tables *keywords.Tables, maxQueries int) *QueryGenerator {
	if maxQueries <= 0 {
		maxQueries = defaultMaxQueries
	}
	return &QueryGenerator{tables: tables, maxQueries: maxQueries}
}

// querySet collects queries in order, dropping duplicates and blanks
type querySet struct {
	seen  map[string]bool
	items []string
}

func newQuerySet() *querySet {
	return &querySet{seen: map[string]bool{}}
}

func (s *querySet) add(parts ...string) {
	q := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	key := strings.ToLower(q)
	if len(q) < 3 || len(q) > 120 || s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, q)
}

func (s *querySet) capped(n int) []string {
	if len(s.items) > n {
		return s.items[:n]
	}
	return s.items
}

// Generate returns the deduplicated, capped queries for one term
func (g *QueryGenerator) Generate(in QueryInput) []string {
	core := strings.ToLower(strings.TrimSpace(in.Core))
	name := strings.TrimSpace(in.Name)
	if core == "" {
		core = strings.ToLower(name)
	}
	if name == "" {
		name = core
	}
	if core == "" {
		return nil
	}

	qs := newQuerySet()
	qs.add(name)
	qs.add(name, "buy online")
	qs.add(name, "shopping India")

	if label, ok := g.tables.Label(in.Polarity); ok && in.Polarity.Gendered() && !g.tables.HasGenderMarker(core) {
		qs.add(label.Word, core)
		qs.add(core, "for", label.Word)
	}

	contains := func(v string) bool { return keywords.NewTerm(v, false).In(core) }
	attrs := in.Attributes
	variants := []struct {
		value          string
		prefix, suffix func(v string)
	}{
		{attrs.Color, func(v string) { qs.add(v, core) }, func(v string) { qs.add(core, "in", v) }},
		{attrs.Material, func(v string) { qs.add(v, core) }, func(v string) { qs.add(core, "in", v) }},
		{attrs.Style, func(v string) { qs.add(v, core) }, func(v string) { qs.add(core, v, "style") }},
		{attrs.Occasion, func(v string) { qs.add(v, core) }, func(v string) { qs.add(core, "for", v) }},
		{attrs.Pattern, func(v string) { qs.add(v, core) }, func(v string) { qs.add(core, "with", v, "pattern") }},
	}
	for _, variant := range variants {
		if variant.value == "" || contains(variant.value) {
			continue
		}
		variant.prefix(variant.value)
		variant.suffix(variant.value)
	}

	var descriptive []string
	for _, v := range []string{attrs.Color, attrs.Material, attrs.Pattern} {
		if v != "" && !contains(v) {
			descriptive = append(descriptive, v)
		}
	}
	if len(descriptive) >= 2 {
		qs.add(strings.Join(descriptive, " "), core)
	}

	if prefs := in.Preferences; prefs != nil {
		if len(prefs.Colors) > 0 {
			qs.add(prefs.Colors[0], core)
		}
		if len(prefs.Style) > 0 {
			qs.add(prefs.Style[0], core)
		}
		if len(prefs.Occasions) > 0 {
			qs.add(core, "for", prefs.Occasions[0])
		}
	}

	for i, platform := range g.tables.Platforms {
		if i == platformsPerTerm {
			break
		}
		qs.add(core, platform)
	}

	qs.add(core, "price")
	if limit := budgetMax(in.Preferences); limit != "" {
		qs.add(core, "under", limit)
	}

	return qs.capped(g.maxQueries)
}

// ForCategory returns browse queries built from a category's leading keywords
func (g *QueryGenerator) ForCategory(category model.Category, polarity model.Polarity, prefs *model.UserPreferences) []string {
	words := g.tables.CategoryKeywords(category).Words()
	if len(words) > categoryKeywordsPerSearch {
		words = words[:categoryKeywordsPerSearch]
	}
	label, gendered := g.tables.Label(polarity)
	gendered = gendered && polarity.Gendered()
	limit := budgetMax(prefs)

	qs := newQuerySet()
	for _, kw := range words {
		qs.add(kw)
		qs.add(kw, "online shopping India")
		if gendered {
			qs.add(label.Word, kw)
			qs.add(kw, "for", label.Word)
		}
		if prefs != nil && len(prefs.Colors) > 0 {
			qs.add(prefs.Colors[0], kw)
		}
		if limit != "" {
			qs.add(kw, "under", limit)
		}
	}
	return qs.capped(maxCategoryQueries)
}

func budgetMax(prefs *model.UserPreferences) string {
	if prefs == nil || prefs.Budget == nil || prefs.Budget.Max <= 0 {
		return ""
	}
	return strconv.FormatFloat(prefs.Budget.Max, 'f', -1, 64)
}
