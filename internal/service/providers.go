package service

import (
	"encoding/json"
	"strings"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// rawChunk covers the delta shapes of the supported providers
type rawChunk struct {
	Choices []struct {
		Delta struct {
			Role             string  `json:"role,omitempty"`
			Content          string  `json:"content,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"` // DeepSeek/NVIDIA
			Reasoning        *string `json:"reasoning,omitempty"`         // OpenRouter
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts standard OpenAI chunk to generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return parseChunk(data, false)
}

// ReasoningStreamChunkParser parses chunks of providers that stream a
// separate reasoning channel next to the content.
type ReasoningStreamChunkParser struct{}

// ParseChunk converts a reasoning-capable chunk to generic StreamChunk
func (p *ReasoningStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return parseChunk(data, true)
}

func parseChunk(data []byte, reasoning bool) (*StreamChunk, error) {
	var raw rawChunk
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(raw.Choices) == 0 {
		return chunk, nil
	}

	choice := raw.Choices[0]
	chunk.Role = choice.Delta.Role
	chunk.Content = choice.Delta.Content
	chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""
	if reasoning {
		switch {
		case choice.Delta.ReasoningContent != nil:
			chunk.ThinkingContent = *choice.Delta.ReasoningContent
		case choice.Delta.Reasoning != nil:
			chunk.ThinkingContent = *choice.Delta.Reasoning
		}
	}
	return chunk, nil
}

// reasoningHosts stream reasoning separately from content
var reasoningHosts = []string{"integrate.api.nvidia.com", "api.deepseek.com", "openrouter.ai"}

// parserFor picks the chunk parser for an API base URL. Unknown providers
// get the standard OpenAI format.
func parserFor(baseURL string) (StreamChunkParser, string) {
	for _, host := range reasoningHosts {
		if strings.Contains(baseURL, host) {
			return &ReasoningStreamChunkParser{}, host
		}
	}
	if strings.Contains(baseURL, "api.openai.com") {
		return &OpenAIStreamChunkParser{}, "openai"
	}
	return &OpenAIStreamChunkParser{}, "openai-compatible"
}
