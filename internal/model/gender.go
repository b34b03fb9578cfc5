package model

// Polarity is the gender orientation of a text or product
type Polarity string

const (
	PolarityMale   Polarity = "male"
	PolarityFemale Polarity = "female"
	PolarityUnisex Polarity = "unisex"
)

// Opposite returns the other gendered polarity. Unisex has no opposite.
func (p Polarity) Opposite() Polarity {
	switch p {
	case PolarityMale:
		return PolarityFemale
	case PolarityFemale:
		return PolarityMale
	default:
		return PolarityUnisex
	}
}

// Gendered reports whether p is male or female
func (p Polarity) Gendered() bool {
	return p == PolarityMale || p == PolarityFemale
}

// Valid reports whether p is one of the known polarities
func (p Polarity) Valid() bool {
	return p == PolarityMale || p == PolarityFemale || p == PolarityUnisex
}

// GenderSignal is a weighted term that pushes the verdict toward a polarity
type GenderSignal struct {
	Term     string   `json:"term" yaml:"term"`
	Weight   int      `json:"weight" yaml:"weight"`
	Polarity Polarity `json:"polarity" yaml:"polarity"`
}

// GenderScores holds the accumulated signal weight per polarity
type GenderScores struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Unisex int `json:"unisex"`
}

// Of returns the score for the given polarity
func (s GenderScores) Of(p Polarity) int {
	switch p {
	case PolarityMale:
		return s.Male
	case PolarityFemale:
		return s.Female
	default:
		return s.Unisex
	}
}

// GenderVerdict is the outcome of gender detection over a piece of text
type GenderVerdict struct {
	Polarity  Polarity     `json:"polarity"`
	Scores    GenderScores `json:"scores"`
	Threshold int          `json:"threshold"`
	Matched   []string     `json:"matched_terms,omitempty"`
}

// DetectionContext selects the detection threshold preset
type DetectionContext string

const (
	ContextFreeText    DetectionContext = "text"
	ContextSearchQuery DetectionContext = "search"
)
