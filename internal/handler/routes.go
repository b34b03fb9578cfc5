package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API endpoints on api
func RegisterRoutes(api *gin.RouterGroup, recommend *RecommendHandler, feedback *FeedbackHandler, embedding *EmbeddingHandler) {
	api.POST("/detect", recommend.Detect)
	api.POST("/analyze", recommend.Analyze)
	api.POST("/recommend", recommend.Recommend)
	api.POST("/recommend/stream", recommend.RecommendStream)
	api.POST("/results/filter", recommend.FilterResults)
	api.GET("/runs/:id", recommend.GetRun)

	api.POST("/feedback", feedback.Submit)

	api.POST("/embeddings/batch", embedding.BatchUpdate)
	api.POST("/terms/similar", embedding.Similar)
}
