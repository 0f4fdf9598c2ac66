package handlers

import (
	"errors"
	"net/http"

	"curumim-backend/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrConversationNotFound),
		errors.Is(err, domain.ErrContributionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrMissingSender),
		errors.Is(err, domain.ErrInvalidSender),
		errors.Is(err, domain.ErrInvalidNumMedia),
		errors.Is(err, domain.ErrInvalidContribID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
