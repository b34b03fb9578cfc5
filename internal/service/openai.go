package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stylelens/internal/config"
	"stylelens/internal/utils"

	"github.com/rs/zerolog"
)

// OpenAIClient handles OpenAI-compatible chat completions for the stylist
type OpenAIClient struct {
	config      config.LLMConfig
	httpClient  *http.Client
	chunkParser StreamChunkParser
	extraBody   map[string]any
	logger      zerolog.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client with auto-detection of provider
func NewOpenAIClient(cfg config.LLMConfig, logger zerolog.Logger) *OpenAIClient {
	parser, provider := parserFor(cfg.APIBase)
	logger = logger.With().Str("component", "stylist").Str("provider", provider).Logger()

	var extra map[string]any
	if cfg.ExtraBody != "" {
		if err := json.Unmarshal([]byte(cfg.ExtraBody), &extra); err != nil {
			logger.Warn().Err(err).Msg("ignoring invalid LLM_EXTRA_BODY")
			extra = nil
		}
	}

	return &OpenAIClient{
		config:      cfg,
		chunkParser: parser,
		extraBody:   extra,
		logger:      logger,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled()
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ExtraBody      map[string]any  `json:"extra_body,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// applyDefaults fills unset request fields from config
func (c *OpenAIClient) applyDefaults(req *ChatCompletionRequest) {
	if req.Model == "" {
		req.Model = c.config.Model
	}
	if req.Temperature == 0 && c.config.Temperature > 0 {
		req.Temperature = c.config.Temperature
	}
	if req.TopP == 0 && c.config.TopP > 0 {
		req.TopP = c.config.TopP
	}
	if req.MaxTokens == 0 && c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	if req.ExtraBody == nil && c.extraBody != nil {
		req.ExtraBody = c.extraBody
	}
}

func (c *OpenAIClient) newRequest(ctx context.Context, req ChatCompletionRequest) (*http.Request, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.APIBase, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	return httpReq, nil
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.IsEnabled() {
		return nil, ErrStylistDisabled
	}
	c.applyDefaults(&req)

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// ChatCompletionStream performs a streaming chat completion request
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error {
	if !c.IsEnabled() {
		return ErrStylistDisabled
	}
	c.applyDefaults(&req)
	req.Stream = true

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		trimmed := bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(trimmed, []byte("data:")); ok {
			data = bytes.TrimSpace(data)
			if bytes.Equal(data, []byte("[DONE]")) {
				return nil
			}

			chunk, perr := c.chunkParser.ParseChunk(data)
			if perr != nil {
				c.logger.Warn().Err(perr).Msg("failed to parse stream chunk")
			} else if cerr := callback(chunk); cerr != nil {
				return fmt.Errorf("callback error: %w", cerr)
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}

const stylistPrompt = `You are a personal fashion stylist for shoppers in India.
Recommend concrete products the shopper can buy online.

Rules:
- Respect the shopper's gender. Never suggest items made for another gender.
- Name each product the way a marketplace would list it, e.g. "Navy Linen Kurta".
- Answer as a numbered list, one product per item, in the form "N. Product Name: one sentence on why it works".
- Mention colours, fabrics and occasions when they matter.
- Recommend between 3 and 8 products.`

// messages builds the conversation for a stylist request
func (c *OpenAIClient) messages(req StylistRequest) []ChatMessage {
	var b strings.Builder
	b.WriteString(req.Utterance)
	if req.Polarity.Gendered() {
		fmt.Fprintf(&b, "\n\nShopper gender: %s", req.Polarity)
	}
	if p := req.Preferences; p != nil {
		if len(p.Colors) > 0 {
			fmt.Fprintf(&b, "\nPreferred colours: %s", strings.Join(p.Colors, ", "))
		}
		if len(p.Style) > 0 {
			fmt.Fprintf(&b, "\nPreferred styles: %s", strings.Join(p.Style, ", "))
		}
		if len(p.Occasions) > 0 {
			fmt.Fprintf(&b, "\nOccasions: %s", strings.Join(p.Occasions, ", "))
		}
		if len(p.BrandPreferences) > 0 {
			fmt.Fprintf(&b, "\nFavourite brands: %s", strings.Join(p.BrandPreferences, ", "))
		}
		if p.Budget != nil && p.Budget.Max > 0 {
			fmt.Fprintf(&b, "\nBudget: up to ₹%.0f", p.Budget.Max)
		}
	}
	return []ChatMessage{
		{Role: "system", Content: stylistPrompt},
		{Role: "user", Content: b.String()},
	}
}

// Suggest asks the stylist for recommendations
func (c *OpenAIClient) Suggest(ctx context.Context, req StylistRequest) (*StylistReply, error) {
	resp, err := c.ChatCompletion(ctx, ChatCompletionRequest{Messages: c.messages(req)})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in stylist response")
	}

	c.logger.Debug().
		Str("model", resp.Model).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("stylist replied")

	return parseReply(resp.Choices[0].Message.Content), nil
}

// SuggestStream asks the stylist for recommendations, forwarding chunks as they arrive
func (c *OpenAIClient) SuggestStream(ctx context.Context, req StylistRequest, callback func(thinking, content string) error) (*StylistReply, error) {
	var content, thinking strings.Builder
	chunks := 0

	err := c.ChatCompletionStream(ctx, ChatCompletionRequest{Messages: c.messages(req)}, func(chunk *StreamChunk) error {
		chunks++
		if chunk.ThinkingContent != "" {
			thinking.WriteString(chunk.ThinkingContent)
			if err := callback(chunk.ThinkingContent, ""); err != nil {
				return err
			}
		}
		if chunk.Content != "" {
			content.WriteString(chunk.Content)
			if err := callback("", chunk.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("streaming error: %w", err)
	}

	c.logger.Debug().
		Int("chunks", chunks).
		Int("content_chars", content.Len()).
		Int("thinking_chars", thinking.Len()).
		Msg("stylist stream completed")

	reply := parseReply(content.String())
	reply.Thinking = thinking.String()
	return reply, nil
}

// structuredReply is the JSON shape some models answer with despite the prompt
type structuredReply struct {
	Gender   string           `json:"gender"`
	Products []StylistProduct `json:"products"`
}

// parseReply turns stylist output into narrative text. JSON replies are
// rendered as a numbered list so the list passes can read them.
func parseReply(content string) *StylistReply {
	reply := &StylistReply{Narrative: strings.TrimSpace(content)}
	if !utils.LooksLikeJSON(content) {
		return reply
	}

	var structured structuredReply
	if err := utils.ParseAIJSON(content, &structured); err != nil || len(structured.Products) == 0 {
		return reply
	}

	var b strings.Builder
	n := 0
	for _, p := range structured.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s", n, name)
		var details []string
		if p.Description != "" {
			details = append(details, strings.TrimSpace(p.Description))
		}
		if len(p.Colors) > 0 {
			details = append(details, "in "+strings.Join(p.Colors, ", "))
		}
		if p.Occasion != "" {
			details = append(details, "for "+p.Occasion)
		}
		if p.Category != "" {
			details = append(details, "("+p.Category+")")
		}
		if len(details) > 0 {
			b.WriteString(": " + strings.Join(details, " "))
		}
		b.WriteString("\n")
	}

	reply.Narrative = strings.TrimSpace(b.String())
	reply.Gender = structured.Gender
	reply.Products = structured.Products
	return reply
}
