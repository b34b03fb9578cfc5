package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylelens/internal/analyzer"
	"stylelens/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrStoreDisabled is returned when persistence is not configured
	ErrStoreDisabled = errors.New("persistence is not enabled (missing DATABASE_URL)")
	// ErrInvalidAction is returned for unknown feedback actions
	ErrInvalidAction = errors.New("invalid action, must be one of: click, save, purchase")
)

var validActions = map[string]bool{
	"click":    true,
	"save":     true,
	"purchase": true,
}

const (
	defaultSimilarLimit = 10
	maxSimilarLimit     = 50
	runLogTimeout       = 5 * time.Second
)

// RunStore persists runs, feedback and term embeddings
type RunStore interface {
	LogRun(ctx context.Context, run *model.RunLog) error
	GetRun(ctx context.Context, runID string) (*model.RunLog, error)
	LogFeedback(ctx context.Context, runID, productLink, action string) error
	UpsertTermEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	SimilarTerms(ctx context.Context, embedding []float32, polarity model.Polarity, limit int) ([]model.SimilarTerm, error)
}

// ProductSearcher runs a batch of search queries
type ProductSearcher interface {
	SearchAll(ctx context.Context, queries []string) ([]model.SearchResult, error)
}

// Recorder receives run and collaborator metrics
type Recorder interface {
	RecordRun(polarity string, took time.Duration)
	RecordStylist(status string)
}

type noopRecorder struct{}

func (noopRecorder) RecordRun(string, time.Duration) {}
func (noopRecorder) RecordStylist(string)            {}

// SearchEventCallback is called for streaming recommendation events
type SearchEventCallback func(event string, data any) error

// RecommendOptions bounds the search fan-out of one run
type RecommendOptions struct {
	MaxTerms       int
	QueriesPerTerm int
}

// RecommendService orchestrates stylist, pipeline, search, filtering and ranking
type RecommendService struct {
	pipeline *analyzer.Pipeline
	stylist  AIClient
	searcher ProductSearcher
	ranker   *Ranker
	store    RunStore
	recorder Recorder
	opts     RecommendOptions
	logger   zerolog.Logger
}

// NewRecommendService creates a recommendation service. stylist, searcher,
// store and recorder may be nil.
func NewRecommendService(
	pipeline *analyzer.Pipeline,
	stylist AIClient,
	searcher ProductSearcher,
	ranker *Ranker,
	store RunStore,
	recorder Recorder,
	opts RecommendOptions,
	logger zerolog.Logger,
) *RecommendService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if opts.MaxTerms <= 0 {
		opts.MaxTerms = 5
	}
	if opts.QueriesPerTerm <= 0 {
		opts.QueriesPerTerm = 2
	}
	return &RecommendService{
		pipeline: pipeline,
		stylist:  stylist,
		searcher: searcher,
		ranker:   ranker,
		store:    store,
		recorder: recorder,
		opts:     opts,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Detect returns the gender verdict of text
func (s *RecommendService) Detect(req model.DetectRequest) model.GenderVerdict {
	return s.pipeline.Detect(req.Text, req.Context)
}

// Analyze runs the pipeline offline. Only the supplied text is used.
func (s *RecommendService) Analyze(req model.AnalyzeRequest) *model.PipelineResult {
	return s.pipeline.Run(analyzer.Input{
		Utterance:   req.Utterance,
		Text:        req.Text,
		Preferences: req.Preferences,
		Context:     req.Context,
	})
}

// Recommend runs a complete recommendation: stylist narrative, pipeline,
// search fan-out, result filtering and ranking
func (s *RecommendService) Recommend(ctx context.Context, req model.AnalyzeRequest) (*model.RecommendResponse, error) {
	if s.searcher == nil {
		return nil, ErrSearchDisabled
	}
	startTime := time.Now()

	narrative := req.Text
	if narrative == "" && s.stylistEnabled() {
		reply, err := s.stylist.Suggest(ctx, s.stylistRequest(req))
		narrative = s.stylistNarrative(reply, err)
	}

	return s.finish(ctx, req, narrative, startTime, nil)
}

// RecommendStream performs a recommendation, reporting progress through callback
func (s *RecommendService) RecommendStream(ctx context.Context, req model.AnalyzeRequest, callback SearchEventCallback) (*model.RecommendResponse, error) {
	if s.searcher == nil {
		return nil, ErrSearchDisabled
	}
	startTime := time.Now()

	narrative := req.Text
	if narrative == "" && s.stylistEnabled() {
		if err := callback("stylist", map[string]any{
			"status": "Asking the stylist...",
		}); err != nil {
			return nil, err
		}

		reply, err := s.stylist.SuggestStream(ctx, s.stylistRequest(req), func(thinking, content string) error {
			if thinking != "" {
				return callback("thinking", map[string]any{"content": thinking})
			}
			if content != "" {
				return callback("narrative", map[string]any{"content": content})
			}
			return nil
		})
		if err != nil && ctx.Err() != nil {
			return nil, err
		}
		narrative = s.stylistNarrative(reply, err)
	}

	return s.finish(ctx, req, narrative, startTime, callback)
}

func (s *RecommendService) stylistEnabled() bool {
	return s.stylist != nil && s.stylist.IsEnabled()
}

func (s *RecommendService) stylistRequest(req model.AnalyzeRequest) StylistRequest {
	return StylistRequest{
		Utterance:   req.Utterance,
		Preferences: req.Preferences,
		Polarity:    s.pipeline.Detect(req.Utterance, req.Context).Polarity,
	}
}

// stylistNarrative falls back to the utterance when the stylist failed
func (s *RecommendService) stylistNarrative(reply *StylistReply, err error) string {
	if err != nil {
		s.recorder.RecordStylist("error")
		s.logger.Warn().Err(err).Msg("stylist failed, extracting from the utterance")
		return ""
	}
	s.recorder.RecordStylist("ok")
	return reply.Narrative
}

// finish runs everything after the narrative is known. callback may be nil.
func (s *RecommendService) finish(
	ctx context.Context,
	req model.AnalyzeRequest,
	narrative string,
	startTime time.Time,
	callback SearchEventCallback,
) (*model.RecommendResponse, error) {
	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	result := s.pipeline.Run(analyzer.Input{
		Utterance:   req.Utterance,
		Text:        narrative,
		Preferences: req.Preferences,
		Context:     req.Context,
	})
	if err := emit("analysis", result); err != nil {
		return nil, err
	}

	queries, confidence := s.queries(result.Terms)
	fallback := false
	if len(queries) == 0 {
		if u := strings.TrimSpace(req.Utterance); u != "" {
			queries = []string{u}
			fallback = true
		}
	}

	if err := emit("searching", map[string]any{
		"status":   "Searching marketplaces...",
		"queries":  queries,
		"fallback": fallback,
	}); err != nil {
		return nil, err
	}

	var raw []model.SearchResult
	if len(queries) > 0 {
		var err error
		raw, err = s.searcher.SearchAll(ctx, queries)
		if err != nil {
			return nil, fmt.Errorf("product search: %w", err)
		}
	}

	polarity := result.Verdict.Polarity
	onMarketplace, rejected := s.marketplaceOnly(raw)
	products, filtered := s.pipeline.FilterResults(onMarketplace, polarity, result.Analysis)
	rejected = append(rejected, filtered...)

	products = s.ranker.Rank(products, s.rankInput(result, req.Preferences, confidence))

	took := time.Since(startTime)
	s.recorder.RecordRun(string(polarity), took)

	response := &model.RecommendResponse{
		RunID:     uuid.NewString(),
		Narrative: narrative,
		Pipeline:  result,
		Products:  products,
		Rejected:  len(rejected),
		Fallback:  fallback,
		Took:      took.Milliseconds(),
	}

	s.logger.Info().
		Str("run_id", response.RunID).
		Str("polarity", string(polarity)).
		Int("terms", len(result.Terms)).
		Int("queries", len(queries)).
		Int("results", len(raw)).
		Int("products", len(products)).
		Int("rejected", response.Rejected).
		Bool("fallback", fallback).
		Int64("took_ms", response.Took).
		Msg("recommendation run")

	s.logRun(req, response, queries)
	return response, nil
}

// queries takes the first few queries of the first few terms, in term order
func (s *RecommendService) queries(terms []model.FilteredProductTerm) ([]string, map[string]int) {
	seen := map[string]bool{}
	confidence := map[string]int{}
	var queries []string
	for i, term := range terms {
		if i == s.opts.MaxTerms {
			break
		}
		for j, q := range term.SearchQueries {
			if j == s.opts.QueriesPerTerm {
				break
			}
			if seen[q] {
				continue
			}
			seen[q] = true
			queries = append(queries, q)
			confidence[q] = term.Confidence
		}
	}
	return queries, confidence
}

// marketplaceOnly drops results that do not link to a known shopping domain
func (s *RecommendService) marketplaceOnly(results []model.SearchResult) ([]model.SearchResult, []model.Rejection) {
	tables := s.pipeline.Tables()
	kept := make([]model.SearchResult, 0, len(results))
	var rejected []model.Rejection
	for _, r := range results {
		if !tables.IsMarketplace(r.Link) {
			rejected = append(rejected, s.pipeline.Reject(r.Title, model.RejectNotMarketplace, analyzer.StageResult))
			continue
		}
		kept = append(kept, r)
	}
	return kept, rejected
}

func (s *RecommendService) rankInput(result *model.PipelineResult, prefs *model.UserPreferences, confidence map[string]int) RankInput {
	in := RankInput{
		Polarity:   result.Verdict.Polarity,
		Confidence: confidence,
	}
	if result.Analysis != nil {
		in.Attributes = result.Analysis.Attributes
	}
	if prefs != nil {
		in.Budget = prefs.Budget
		in.Colors = prefs.Colors
	}
	return in
}

// logRun stores the run without blocking the response
func (s *RecommendService) logRun(req model.AnalyzeRequest, resp *model.RecommendResponse, queries []string) {
	if s.store == nil {
		return
	}

	run := &model.RunLog{
		RunID:          resp.RunID,
		Utterance:      req.Utterance,
		Polarity:       resp.Pipeline.Verdict.Polarity,
		Queries:        queries,
		ResultCount:    len(resp.Products),
		RejectedCount:  resp.Rejected,
		Fallback:       resp.Fallback,
		ResponseTimeMs: int(resp.Took),
		CreatedAt:      time.Now().UTC(),
	}
	if v, err := model.ToJSONMap(resp.Pipeline.Verdict); err == nil {
		run.Verdict = v
	}
	if resp.Pipeline.Analysis != nil {
		if a, err := model.ToJSONMap(resp.Pipeline.Analysis); err == nil {
			run.Analysis = a
		}
	}
	run.Terms = model.JSONArray{}
	for _, t := range resp.Pipeline.Terms {
		run.Terms = append(run.Terms, t.Name)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), runLogTimeout)
		defer cancel()
		if err := s.store.LogRun(ctx, run); err != nil {
			s.logger.Warn().Err(err).Str("run_id", run.RunID).Msg("failed to log run")
		}
	}()
}

// FilterResults runs the second filtering pass over host-supplied results and ranks the survivors
func (s *RecommendService) FilterResults(req model.FilterResultsRequest) *model.FilterResultsResponse {
	ctx := req.Context
	if ctx == "" {
		ctx = model.ContextSearchQuery
	}
	verdict := s.pipeline.Detect(req.Utterance, ctx)
	if req.Polarity.Valid() {
		verdict.Polarity = req.Polarity
	}

	var analysis *model.SpecificityAnalysis
	if strings.TrimSpace(req.Utterance) != "" {
		a := s.pipeline.Analyze(req.Utterance)
		analysis = &a
	}

	products, rejected := s.pipeline.FilterResults(req.Results, verdict.Polarity, analysis)
	in := RankInput{Polarity: verdict.Polarity}
	if analysis != nil {
		in.Attributes = analysis.Attributes
	}

	return &model.FilterResultsResponse{
		Verdict:    verdict,
		Products:   s.ranker.Rank(products, in),
		Rejections: rejected,
	}
}

// GetRun returns a stored run
func (s *RecommendService) GetRun(ctx context.Context, runID string) (*model.RunLog, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	return s.store.GetRun(ctx, runID)
}

// LogFeedback logs a shopper action on a recommended product
func (s *RecommendService) LogFeedback(ctx context.Context, req model.FeedbackRequest) error {
	if !validActions[req.Action] {
		return ErrInvalidAction
	}
	if s.store == nil {
		return ErrStoreDisabled
	}
	return s.store.LogFeedback(ctx, req.RunID, req.ProductLink, req.Action)
}

// UpdateEmbeddings stores host-computed embeddings for product terms
func (s *RecommendService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string, error) {
	if s.store == nil {
		return 0, nil, ErrStoreDisabled
	}
	success, errs := s.store.UpsertTermEmbeddings(ctx, items)
	return success, errs, nil
}

// SimilarTerms returns the stored terms nearest to an embedding
func (s *RecommendService) SimilarTerms(ctx context.Context, req model.SimilarTermsRequest) ([]model.SimilarTerm, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}
	return s.store.SimilarTerms(ctx, req.Embedding, req.Polarity, limit)
}
