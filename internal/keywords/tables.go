// Package keywords holds the immutable keyword tables shared by the analyzer.
package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"stylelens/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

var (
	// ErrOverlappingItems is returned when a product is listed as both male and female specific.
	ErrOverlappingItems = errors.New("gender specific item lists overlap")
	// ErrInvalidTables is returned for structurally invalid tables.
	ErrInvalidTables = errors.New("invalid keyword tables")
)

// CategorySpec lists the keywords of one category
type CategorySpec struct {
	Name     model.Category `yaml:"name"`
	Keywords []string       `yaml:"keywords"`
}

// ProductSpec is a group of exact product names within a category
type ProductSpec struct {
	Category   model.Category `yaml:"category"`
	Name       string         `yaml:"name"`
	Variations []string       `yaml:"variations"`
}

// Label is how a gendered polarity is spelled in names and queries
type Label struct {
	Prefix string `yaml:"prefix"`
	Word   string `yaml:"word"`
}

// PolarityWords lists words per polarity
type PolarityWords struct {
	Male   []string `yaml:"male"`
	Female []string `yaml:"female"`
	Unisex []string `yaml:"unisex"`
}

// AttributeSpec lists the attribute vocabularies, in priority order
type AttributeSpec struct {
	Colors    []string `yaml:"colors"`
	Materials []string `yaml:"materials"`
	Styles    []string `yaml:"styles"`
	Occasions []string `yaml:"occasions"`
	Patterns  []string `yaml:"patterns"`
	Fits      []string `yaml:"fits"`
}

// Spec is the serialized form of the tables
type Spec struct {
	ItemWeight        int                            `yaml:"item_weight"`
	Signals           []model.GenderSignal           `yaml:"signals"`
	Items             PolarityWords                  `yaml:"items"`
	GenderWords       PolarityWords                  `yaml:"gender_words"`
	Labels            map[model.Polarity]Label       `yaml:"labels"`
	GenderSearchTerms map[model.Polarity][]string    `yaml:"gender_search_terms"`
	Categories        []CategorySpec                 `yaml:"categories"`
	NeutralCategories []model.Category               `yaml:"neutral_categories"`
	Products          []ProductSpec                  `yaml:"products"`
	ProductNouns      []string                       `yaml:"product_nouns"`
	Modifiers         []string                       `yaml:"modifiers"`
	StyleDescriptors  []string                       `yaml:"style_descriptors"`
	Brands            []string                       `yaml:"brands"`
	Attributes        AttributeSpec                  `yaml:"attributes"`
	IntentPhrases     []string                       `yaml:"intent_phrases"`
	AdvicePhrases     []string                       `yaml:"advice_phrases"`
	Platforms         []string                       `yaml:"platforms"`
	Marketplaces      []string                       `yaml:"marketplaces"`
}

// Signal is a compiled gender signal
type Signal struct {
	model.GenderSignal
	Term Term
}

// CategoryTerms is a compiled category table
type CategoryTerms struct {
	Name  model.Category
	Terms TermList
}

// ProductGroup is a compiled exact-product group
type ProductGroup struct {
	Category   model.Category
	Name       string
	Variations TermList
}

// Tables is the compiled, read-only form of Spec
type Tables struct {
	ItemWeight int
	Signals    []Signal

	items       map[model.Polarity]TermList
	genderWords map[model.Polarity]TermList
	labels      map[model.Polarity]Label
	searchTerms map[model.Polarity][]string
	neutral     map[model.Category]bool

	Categories       []CategoryTerms
	Products         []ProductGroup
	ProductNouns     TermList
	Modifiers        TermList
	StyleDescriptors TermList
	Brands           TermList

	Colors    TermList
	Materials TermList
	Styles    TermList
	Occasions TermList
	Patterns  TermList
	Fits      TermList

	IntentPhrases TermList
	AdvicePhrases TermList

	Platforms    []string
	Marketplaces []string
}

// New validates spec and compiles it
func New(spec Spec) (*Tables, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	t := &Tables{
		ItemWeight: spec.ItemWeight,
		items: map[model.Polarity]TermList{
			model.PolarityMale:   NewTermList(spec.Items.Male, true),
			model.PolarityFemale: NewTermList(spec.Items.Female, true),
		},
		genderWords: map[model.Polarity]TermList{
			model.PolarityMale:   NewTermList(spec.GenderWords.Male, false),
			model.PolarityFemale: NewTermList(spec.GenderWords.Female, false),
			model.PolarityUnisex: NewTermList(spec.GenderWords.Unisex, false),
		},
		labels:           spec.Labels,
		searchTerms:      spec.GenderSearchTerms,
		neutral:          make(map[model.Category]bool, len(spec.NeutralCategories)),
		ProductNouns:     NewTermList(spec.ProductNouns, true),
		Modifiers:        NewTermList(spec.Modifiers, false),
		StyleDescriptors: NewTermList(spec.StyleDescriptors, false),
		Brands:           NewTermList(spec.Brands, false),
		Colors:           NewTermList(spec.Attributes.Colors, false),
		Materials:        NewTermList(spec.Attributes.Materials, false),
		Styles:           NewTermList(spec.Attributes.Styles, false),
		Occasions:        NewTermList(spec.Attributes.Occasions, false),
		Patterns:         NewTermList(spec.Attributes.Patterns, false),
		Fits:             NewTermList(spec.Attributes.Fits, false),
		IntentPhrases:    NewTermList(spec.IntentPhrases, false),
		AdvicePhrases:    NewTermList(spec.AdvicePhrases, false),
		Platforms:        lowerAll(spec.Platforms),
		Marketplaces:     lowerAll(spec.Marketplaces),
	}

	if t.ItemWeight == 0 {
		t.ItemWeight = 8
	}
	for _, s := range spec.Signals {
		t.Signals = append(t.Signals, Signal{GenderSignal: s, Term: NewTerm(s.Term, false)})
	}
	for _, c := range spec.Categories {
		t.Categories = append(t.Categories, CategoryTerms{Name: c.Name, Terms: NewTermList(c.Keywords, true)})
	}
	for _, c := range spec.NeutralCategories {
		t.neutral[c] = true
	}
	for _, p := range spec.Products {
		t.Products = append(t.Products, ProductGroup{
			Category:   p.Category,
			Name:       p.Name,
			Variations: NewTermList(p.Variations, true),
		})
	}

	return t, nil
}

// Parse decodes YAML tables and compiles them
func Parse(data []byte) (*Tables, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode keyword tables: %w", err)
	}
	return New(spec)
}

// Load reads tables from path, or the built-in tables when path is empty
func Load(path string) (*Tables, error) {
	if path == "" {
		return Parse(defaultTablesYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword tables %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in tables and panics if they are invalid
func Default() *Tables {
	t, err := Parse(defaultTablesYAML)
	if err != nil {
		panic(fmt.Sprintf("keywords: built-in tables: %v", err))
	}
	return t
}

// DefaultSpec returns the decoded built-in tables for callers that want to tweak them
func DefaultSpec() Spec {
	var spec Spec
	if err := yaml.Unmarshal(defaultTablesYAML, &spec); err != nil {
		panic(fmt.Sprintf("keywords: built-in tables: %v", err))
	}
	return spec
}

// Items returns the gender-specific product list for p
func (t *Tables) Items(p model.Polarity) TermList {
	return t.items[p]
}

// GenderWords returns the gender word list for p
func (t *Tables) GenderWords(p model.Polarity) TermList {
	return t.genderWords[p]
}

// Label returns the spelling of a gendered polarity
func (t *Tables) Label(p model.Polarity) (Label, bool) {
	l, ok := t.labels[p]
	return l, ok
}

// GenderSearchTerms returns the enrichment terms for p
func (t *Tables) GenderSearchTerms(p model.Polarity) []string {
	return t.searchTerms[p]
}

// IsNeutral reports whether category c is exempt from the same-gender requirement
func (t *Tables) IsNeutral(c model.Category) bool {
	return t.neutral[c]
}

// HasGenderMarker reports whether text carries any male or female gender word
func (t *Tables) HasGenderMarker(text string) bool {
	return t.genderWords[model.PolarityMale].Any(text) || t.genderWords[model.PolarityFemale].Any(text)
}

// CategoryOf returns the category with the most keyword hits in text.
// Ties go to the earlier table; no hits yields CategoryFashion.
func (t *Tables) CategoryOf(text string) (model.Category, int) {
	best, bestHits := model.CategoryFashion, 0
	for _, c := range t.Categories {
		if n := len(c.Terms.Hits(text)); n > bestHits {
			best, bestHits = c.Name, n
		}
	}
	return best, bestHits
}

// CategoryKeywords returns the keyword list of category c
func (t *Tables) CategoryKeywords(c model.Category) TermList {
	for _, ct := range t.Categories {
		if ct.Name == c {
			return ct.Terms
		}
	}
	return TermList{}
}

// AnyCategoryKeyword reports whether text contains a keyword of any category
func (t *Tables) AnyCategoryKeyword(text string) bool {
	for _, c := range t.Categories {
		if c.Terms.Any(text) {
			return true
		}
	}
	return false
}

// IsMarketplace reports whether link points at a known shopping domain
func (t *Tables) IsMarketplace(link string) bool {
	link = strings.ToLower(link)
	for _, m := range t.Marketplaces {
		if strings.Contains(link, m) {
			return true
		}
	}
	return false
}

func validate(spec Spec) error {
	if len(spec.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidTables)
	}
	seen := map[model.Category]bool{}
	for _, c := range spec.Categories {
		if c.Name == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("%w: category %q has no keywords", ErrInvalidTables, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidTables, c.Name)
		}
		seen[c.Name] = true
	}
	for _, s := range spec.Signals {
		if strings.TrimSpace(s.Term) == "" {
			return fmt.Errorf("%w: empty signal term", ErrInvalidTables)
		}
		if s.Weight <= 0 {
			return fmt.Errorf("%w: signal %q has weight %d", ErrInvalidTables, s.Term, s.Weight)
		}
		if !s.Polarity.Valid() {
			return fmt.Errorf("%w: signal %q has polarity %q", ErrInvalidTables, s.Term, s.Polarity)
		}
	}
	if spec.ItemWeight < 0 {
		return fmt.Errorf("%w: negative item weight", ErrInvalidTables)
	}

	male := make(map[string]bool, len(spec.Items.Male))
	for _, w := range spec.Items.Male {
		male[normalizeWord(w)] = true
	}
	for _, w := range spec.Items.Female {
		if male[normalizeWord(w)] {
			return fmt.Errorf("%w: %q", ErrOverlappingItems, w)
		}
	}
	return nil
}

func normalizeWord(w string) string {
	return strings.Join(strings.Fields(strings.ToLower(w)), " ")
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = normalizeWord(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
