package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"stylelens/internal/cache"
	"stylelens/internal/config"
	"stylelens/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrSearchDisabled is returned when no product search provider is configured
var ErrSearchDisabled = errors.New("product search is not enabled (missing SEARCH_API_KEY)")

// SearchClient runs one web product search
type SearchClient interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// WebSearchClient talks to a Serper-compatible web search API
type WebSearchClient struct {
	config     config.SearchConfig
	httpClient *http.Client
}

// NewWebSearchClient creates a search client from config
func NewWebSearchClient(cfg config.SearchConfig) *WebSearchClient {
	return &WebSearchClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type webSearchRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num,omitempty"`
	Country  string `json:"gl,omitempty"`
	Language string `json:"hl,omitempty"`
}

type webSearchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Price   any    `json:"price"`
}

type webSearchResponse struct {
	Organic  []webSearchItem `json:"organic"`
	Shopping []webSearchItem `json:"shopping"`
}

// Search posts query and returns shopping results followed by organic ones
func (c *WebSearchClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	reqBody, err := json.Marshal(webSearchRequest{
		Query:    query,
		Num:      c.config.ResultsPerQuery,
		Country:  c.config.Country,
		Language: c.config.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", c.config.APIKey)

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
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed webSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Shopping)+len(parsed.Organic))
	for _, items := range [][]webSearchItem{parsed.Shopping, parsed.Organic} {
		for _, item := range items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			results = append(results, model.SearchResult{
				Title:   item.Title,
				Snippet: item.Snippet,
				Link:    item.Link,
				Source:  item.Source,
				Price:   priceString(item.Price),
				Query:   query,
			})
		}
	}
	return results, nil
}

// priceString accepts "₹1,299" as well as bare numbers
func priceString(v any) string {
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p)
	case float64:
		return fmt.Sprintf("₹%.0f", p)
	default:
		return ""
	}
}

// SearchRecorder counts search outcomes
type SearchRecorder interface {
	RecordSearch(status string)
}

// CachedSearchClient serves repeated queries from a cache
type CachedSearchClient struct {
	next     SearchClient
	cache    cache.Client
	ttl      time.Duration
	num      int
	country  string
	recorder SearchRecorder
	logger   zerolog.Logger
}

// NewCachedSearchClient wraps next with cache. recorder may be nil.
func NewCachedSearchClient(next SearchClient, c cache.Client, cfg config.SearchConfig, ttl time.Duration, recorder SearchRecorder, logger zerolog.Logger) *CachedSearchClient {
	return &CachedSearchClient{
		next:     next,
		cache:    c,
		ttl:      ttl,
		num:      cfg.ResultsPerQuery,
		country:  cfg.Country,
		recorder: recorder,
		logger:   logger,
	}
}

// Search returns cached results when present, otherwise searches and stores them
func (c *CachedSearchClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	key := cache.SearchKey(query, c.num, c.country)

	data, err := c.cache.Get(ctx, key)
	if err == nil {
		var results []model.SearchResult
		if uerr := json.Unmarshal(data, &results); uerr == nil {
			c.record("cached")
			return withQuery(results, query), nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("query", query).Msg("search cache read failed")
	}

	results, err := c.next.Search(ctx, query)
	if err != nil {
		c.record("error")
		return nil, err
	}
	c.record("ok")

	if data, merr := json.Marshal(results); merr == nil {
		if serr := c.cache.Set(ctx, key, data, c.ttl); serr != nil {
			c.logger.Warn().Err(serr).Str("query", query).Msg("search cache write failed")
		}
	}
	return results, nil
}

func (c *CachedSearchClient) record(status string) {
	if c.recorder != nil {
		c.recorder.RecordSearch(status)
	}
}

// withQuery stamps results with the query that produced them; the cache key
// folds case so a hit may come from a differently spelled query.
func withQuery(results []model.SearchResult, query string) []model.SearchResult {
	for i := range results {
		results[i].Query = query
	}
	return results
}

// Searcher fans queries out to a SearchClient with bounded concurrency and a
// shared request rate.
type Searcher struct {
	client        SearchClient
	limiter       *rate.Limiter
	maxConcurrent int
	maxResults    int
	logger        zerolog.Logger
}

// NewSearcher creates a fan-out searcher from config
func NewSearcher(client SearchClient, cfg config.SearchConfig, logger zerolog.Logger) *Searcher {
	burst := cfg.MaxConcurrent
	if burst <= 0 {
		burst = 1
	}
	rps := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		rps = rate.Inf
	}
	return &Searcher{
		client:        client,
		limiter:       rate.NewLimiter(rps, burst),
		maxConcurrent: burst,
		maxResults:    cfg.MaxResults,
		logger:        logger,
	}
}

// SearchAll runs every query and merges the results in query order, dropping
// duplicate links. Failed queries are logged and skipped; an error is
// returned only when every query failed.
func (s *Searcher) SearchAll(ctx context.Context, queries []string) ([]model.SearchResult, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	perQuery := make([][]model.SearchResult, len(queries))
	var (
		mu       sync.Mutex
		failures []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, q := range queries {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			results, err := s.client.Search(gctx, q)
			if err != nil {
				s.logger.Warn().Err(err).Str("query", q).Msg("search query failed")
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			perQuery[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(failures) == len(queries) {
		return nil, fmt.Errorf("all %d search queries failed: %w", len(queries), errors.Join(failures...))
	}

	seen := map[string]bool{}
	var merged []model.SearchResult
	for _, results := range perQuery {
		for _, r := range results {
			key := strings.TrimRight(strings.ToLower(r.Link), "/")
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
			if s.maxResults > 0 && len(merged) == s.maxResults {
				return merged, nil
			}
		}
	}
	return merged, nil
}
