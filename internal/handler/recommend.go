package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stylelens/internal/model"
	"stylelens/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendHandler handles detection, analysis and recommendation requests
type RecommendHandler struct {
	recommendService *service.RecommendService
}

// NewRecommendHandler creates a new recommend handler
func NewRecommendHandler(recommendService *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
	}
}

// Detect handles POST /api/v1/detect
func (h *RecommendHandler) Detect(c *gin.Context) {
	var req model.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !validContext(req.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid context. Must be one of: text, search"})
		return
	}

	c.JSON(http.StatusOK, h.recommendService.Detect(req))
}

// Analyze handles POST /api/v1/analyze
func (h *RecommendHandler) Analyze(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.recommendService.Analyze(req))
}

// Recommend handles POST /api/v1/recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	response, err := h.recommendService.Recommend(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Recommendation failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RecommendStream handles POST /api/v1/recommend/stream - SSE streaming recommendation
func (h *RecommendHandler) RecommendStream(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"utterance": req.Utterance})
	flusher.Flush()

	response, err := h.recommendService.RecommendStream(c.Request.Context(), req, func(event string, data any) error {
		if err := c.Request.Context().Err(); err != nil {
			return err
		}
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "results", response)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// FilterResults handles POST /api/v1/results/filter
func (h *RecommendHandler) FilterResults(c *gin.Context) {
	var req model.FilterResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Polarity != "" && !req.Polarity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid polarity. Must be one of: male, female, unisex"})
		return
	}
	if !validContext(req.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid context. Must be one of: text, search"})
		return
	}

	c.JSON(http.StatusOK, h.recommendService.FilterResults(req))
}

// GetRun handles GET /api/v1/runs/:id
func (h *RecommendHandler) GetRun(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("id"))
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
		return
	}

	run, err := h.recommendService.GetRun(c.Request.Context(), runID)
	if err != nil {
		writeError(c, "Failed to get run", err)
		return
	}

	c.JSON(http.StatusOK, run)
}

func bindAnalyzeRequest(c *gin.Context) (model.AnalyzeRequest, bool) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return req, false
	}
	if strings.TrimSpace(req.Utterance) == "" && strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: utterance or text is required"})
		return req, false
	}
	if !validContext(req.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid context. Must be one of: text, search"})
		return req, false
	}
	return req, true
}

func validContext(ctx model.DetectionContext) bool {
	return ctx == "" || ctx == model.ContextFreeText || ctx == model.ContextSearchQuery
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
