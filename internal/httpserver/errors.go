package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"catshop/internal/domain"
)

// writeError maps service errors to HTTP responses. Storage failures are
// logged and surfaced as a generic 500 without internals.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Msg})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "a user with this email already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
	default:
		logger.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
