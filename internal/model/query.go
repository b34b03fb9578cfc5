package model

// AnalyzeRequest is the input of the analyze and recommend endpoints
type AnalyzeRequest struct {
	// Utterance is what the shopper typed.
	Utterance string `json:"utterance"`
	// Text is stylist narrative to extract products from. When empty the
	// stylist collaborator is asked, or the utterance itself is used.
	Text        string           `json:"text,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Context     DetectionContext `json:"context,omitempty"`
}

// DetectRequest asks for a gender verdict over a text
type DetectRequest struct {
	Text    string           `json:"text" binding:"required"`
	Context DetectionContext `json:"context,omitempty"`
}

// PipelineResult is everything the analysis pipeline produced for one input
type PipelineResult struct {
	Verdict            GenderVerdict         `json:"verdict"`
	Analysis           *SpecificityAnalysis  `json:"analysis,omitempty"`
	Candidates         []CandidateProduct    `json:"candidates"`
	Terms              []FilteredProductTerm `json:"terms"`
	Rejections         []Rejection           `json:"rejections,omitempty"`
	Brands             []string              `json:"brands,omitempty"`
	Prices             []string              `json:"prices,omitempty"`
	AnalysisConfidence int                   `json:"analysis_confidence"`
}

// RecommendResponse is the response of the recommend endpoints
type RecommendResponse struct {
	RunID     string          `json:"run_id"`
	Narrative string          `json:"narrative,omitempty"`
	Pipeline  *PipelineResult `json:"pipeline"`
	Products  []Product       `json:"products"`
	Rejected  int             `json:"rejected_results"`
	Fallback  bool            `json:"fallback"`
	Took      int64           `json:"took_ms"`
}

// FilterResultsRequest runs the second filtering pass over raw search results
type FilterResultsRequest struct {
	Utterance string           `json:"utterance"`
	Results   []SearchResult   `json:"results" binding:"required"`
	Context   DetectionContext `json:"context,omitempty"`
	// Polarity overrides detection when set.
	Polarity Polarity `json:"polarity,omitempty"`
}

// FilterResultsResponse is the outcome of the second filtering pass
type FilterResultsResponse struct {
	Verdict    GenderVerdict `json:"verdict"`
	Products   []Product     `json:"products"`
	Rejections []Rejection   `json:"rejections,omitempty"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is a host-computed embedding for a product term
type EmbeddingItem struct {
	Term      string    `json:"term" binding:"required"`
	Category  Category  `json:"category,omitempty"`
	Polarity  Polarity  `json:"polarity,omitempty"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// SimilarTermsRequest looks up stored terms nearest to an embedding
type SimilarTermsRequest struct {
	Embedding []float32 `json:"embedding" binding:"required"`
	Polarity  Polarity  `json:"polarity,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// SimilarTerm is a stored term with its cosine distance to the query
type SimilarTerm struct {
	Term     string   `json:"term" db:"term"`
	Category Category `json:"category" db:"category"`
	Polarity Polarity `json:"polarity" db:"polarity"`
	Distance float64  `json:"distance" db:"distance"`
}

// FeedbackRequest records a shopper action on a recommended product
type FeedbackRequest struct {
	RunID       string `json:"run_id" binding:"required"`
	ProductLink string `json:"product_link" binding:"required"`
	Action      string `json:"action" binding:"required"` // click, save, purchase
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
