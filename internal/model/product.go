package model

// Category is a fashion category bucket
type Category string

const (
	CategoryEthnicWear  Category = "ethnic-wear"
	CategoryWesternWear Category = "western-wear"
	CategoryAccessories Category = "accessories"
	CategoryFootwear    Category = "footwear"
	CategoryFormalWear  Category = "formal-wear"
	CategoryPartyWear   Category = "party-wear"
	// CategoryFashion is used when no category keyword matched.
	CategoryFashion Category = "fashion"
)

// PassKind names the extraction pass that produced a candidate
type PassKind string

const (
	PassStructured PassKind = "structured"
	PassBullet     PassKind = "bullet"
	PassNumbered   PassKind = "numbered"
	PassSentence   PassKind = "sentence"
	PassHeading    PassKind = "heading"
	PassNounPhrase PassKind = "noun-phrase"
)

// CandidateProduct is a product mention extracted from free text
type CandidateProduct struct {
	RawName           string   `json:"raw_name"`
	Category          Category `json:"category"`
	SearchTerms       []string `json:"search_terms"`
	Confidence        int      `json:"confidence"`
	Gender            Polarity `json:"gender"`
	ExtractionContext string   `json:"extraction_context"`
	// Context is the surrounding text the mention was found in.
	Context string   `json:"context,omitempty"`
	Pass    PassKind `json:"pass"`
}

// FilteredProductTerm is a candidate that survived filtering, with its queries
type FilteredProductTerm struct {
	Name          string   `json:"name"`
	CoreName      string   `json:"core_name"`
	Category      Category `json:"category"`
	Gender        Polarity `json:"gender"`
	SearchTerms   []string `json:"search_terms"`
	SearchQueries []string `json:"search_queries"`
	Confidence    int      `json:"confidence"`
}

// Rejection reasons
const (
	RejectOppositeGender   = "opposite_gender"
	RejectMissingGender    = "missing_gender_context"
	RejectExcludedKeyword  = "excluded_keyword"
	RejectMissingMandatory = "missing_mandatory_keyword"
	RejectLowConfidence    = "low_confidence"
	RejectNotMarketplace   = "not_marketplace"
)

// Rejection records why a candidate or search result was dropped
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Stage  string `json:"stage"`
	Term   string `json:"term,omitempty"`
}

// SearchResult is a raw result returned by the search collaborator
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Link    string `json:"link"`
	Source  string `json:"source,omitempty"`
	Price   string `json:"price,omitempty"`
	// Query is the search query that produced the result.
	Query string `json:"query,omitempty"`
}

// Product is a search result that passed filtering, annotated and scored
type Product struct {
	Name           string   `json:"name"`
	OriginalTitle  string   `json:"original_title"`
	Snippet        string   `json:"snippet,omitempty"`
	Link           string   `json:"link"`
	Source         string   `json:"source,omitempty"`
	Price          string   `json:"price,omitempty"`
	PriceValue     *float64 `json:"price_value,omitempty"`
	Category       Category `json:"category"`
	Gender         Polarity `json:"gender"`
	Query          string   `json:"query,omitempty"`
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}
