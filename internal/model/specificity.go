package model

// UserIntent classifies what the shopper is asking for
type UserIntent string

const (
	IntentSpecificProduct UserIntent = "specific_product"
	IntentCategoryBrowse  UserIntent = "category_browse"
	IntentStyleAdvice     UserIntent = "style_advice"
)

// Attributes are the product attributes named in an utterance
type Attributes struct {
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
	Style    string `json:"style,omitempty"`
	Occasion string `json:"occasion,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	Fit      string `json:"fit,omitempty"`
	Brand    string `json:"brand,omitempty"`
}

// Count returns the number of attributes that are set
func (a Attributes) Count() int {
	n := 0
	for _, v := range []string{a.Color, a.Material, a.Style, a.Occasion, a.Pattern, a.Fit, a.Brand} {
		if v != "" {
			n++
		}
	}
	return n
}

// AsMap returns the set attributes keyed by attribute name
func (a Attributes) AsMap() map[string]string {
	m := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("color", a.Color)
	set("material", a.Material)
	set("style", a.Style)
	set("occasion", a.Occasion)
	set("pattern", a.Pattern)
	set("fit", a.Fit)
	set("brand", a.Brand)
	return m
}

// SpecificityAnalysis describes how precisely an utterance names a product
type SpecificityAnalysis struct {
	UserIntent          UserIntent `json:"user_intent"`
	SpecificProductName string     `json:"specific_product_name"`
	ExactCategory       Category   `json:"exact_category"`
	Attributes          Attributes `json:"attributes"`
	SearchPrecision     int        `json:"search_precision"`
	MandatoryKeywords   []string   `json:"mandatory_keywords"`
	ExcludeKeywords     []string   `json:"exclude_keywords"`
}

// Budget is a price range in rupees
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UserPreferences are optional shopper preferences used when generating queries
type UserPreferences struct {
	Gender           Polarity `json:"gender,omitempty"`
	Colors           []string `json:"colors,omitempty"`
	Style            []string `json:"style,omitempty"`
	Sizes            []string `json:"sizes,omitempty"`
	Budget           *Budget  `json:"budget,omitempty"`
	Occasions        []string `json:"occasions,omitempty"`
	BrandPreferences []string `json:"brand_preferences,omitempty"`
}
