package handler

import (
	"net/http"

	"stylelens/internal/model"
	"stylelens/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	recommendService *service.RecommendService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(recommendService *service.RecommendService) *FeedbackHandler {
	return &FeedbackHandler{
		recommendService: recommendService,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.recommendService.LogFeedback(c.Request.Context(), req); err != nil {
		writeError(c, "Failed to log feedback", err)
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
