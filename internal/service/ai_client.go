package service

import (
	"context"
	"errors"

	"stylelens/internal/model"
)

// ErrStylistDisabled is returned when no stylist provider is configured
var ErrStylistDisabled = errors.New("stylist is not enabled (missing LLM_API_KEY)")

// AIClient is the interface for stylist providers
type AIClient interface {
	// Suggest asks for outfit recommendations (non-streaming)
	Suggest(ctx context.Context, req StylistRequest) (*StylistReply, error)

	// SuggestStream asks for recommendations with streaming support.
	// The callback receives (thinkingContent, regularContent) for each chunk.
	SuggestStream(ctx context.Context, req StylistRequest, callback func(thinking, content string) error) (*StylistReply, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// StylistRequest is what the stylist is told about the shopper
type StylistRequest struct {
	Utterance   string
	Preferences *model.UserPreferences
	// Polarity is the gender already detected from the utterance, if any.
	Polarity model.Polarity
}

// StylistReply is the stylist's answer, normalised to narrative text
type StylistReply struct {
	// Narrative is the text handed to the extractor. JSON replies are
	// rendered into a numbered list.
	Narrative string
	Thinking  string
	Gender    string
	Products  []StylistProduct
}

// StylistProduct is one product of a structured stylist reply
type StylistProduct struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Occasion    string   `json:"occasion,omitempty"`
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content (always present in streaming)
	Content string

	// Thinking/reasoning content (provider-specific, e.g., DeepSeek)
	ThinkingContent string

	Role string

	// Whether this is the final chunk
	Done bool
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
