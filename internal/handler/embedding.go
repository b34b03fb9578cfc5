package handler

import (
	"fmt"
	"net/http"

	"stylelens/internal/model"
	"stylelens/internal/service"

	"github.com/gin-gonic/gin"
)

// maxBatchSize bounds one embedding upload
const maxBatchSize = 500

// EmbeddingHandler handles term embedding HTTP requests
type EmbeddingHandler struct {
	recommendService *service.RecommendService
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(recommendService *service.RecommendService) *EmbeddingHandler {
	return &EmbeddingHandler{
		recommendService: recommendService,
	}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embeddings provided"})
		return
	}
	if len(req.Embeddings) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Too many embeddings, at most %d per batch", maxBatchSize)})
		return
	}

	// All vectors of a batch must share one dimension
	dim := len(req.Embeddings[0].Embedding)
	for i, item := range req.Embeddings {
		if len(item.Embedding) != dim {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid embedding dimension at index %d, expected %d", i, dim),
			})
			return
		}
	}

	success, errs, err := h.recommendService.UpdateEmbeddings(c.Request.Context(), req.Embeddings)
	if err != nil {
		writeError(c, "Failed to update embeddings", err)
		return
	}

	response := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errs,
	}

	if len(errs) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// Similar handles POST /api/v1/terms/similar
func (h *EmbeddingHandler) Similar(c *gin.Context) {
	var req model.SimilarTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if len(req.Embedding) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embedding provided"})
		return
	}

	terms, err := h.recommendService.SimilarTerms(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Failed to find similar terms", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"terms": terms})
}
