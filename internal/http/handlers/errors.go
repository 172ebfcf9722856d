package handlers

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	payload := gin.H{"error": message}
	if rid := middleware.GetRequestID(c); rid != "" {
		payload["request_id"] = rid
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Raw lower-layer
// errors must be wrapped into the taxonomy before reaching this point.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case domain.IsUnauthenticated(err):
		respondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "something went wrong")
	}
}
