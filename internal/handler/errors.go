package handler

import (
	"errors"
	"net/http"

	"stylelens/internal/repository"
	"stylelens/internal/service"

	"github.com/gin-gonic/gin"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// writeError maps service errors to status codes
func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidAction):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrRunNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSearchDisabled),
		errors.Is(err, service.ErrStylistDisabled),
		errors.Is(err, service.ErrStoreDisabled):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": msg + ": " + err.Error()})
}
