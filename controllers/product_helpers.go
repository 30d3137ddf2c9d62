package controllers

import (
	"errors"
	"net/http"

	"catalog-service/repository"
	"catalog-service/services"
	"catalog-service/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses. Validation and
// file-type failures are the client's fault; everything else is a store
// failure and stays opaque.
func handleServiceError(c *gin.Context, err error, fallbackMsg string) {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.As(err, &validationErr),
		errors.Is(err, uploads.ErrInvalidFileType),
		errors.Is(err, uploads.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
