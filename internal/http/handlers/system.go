package handlers

import (
	"net/http"

	"storefront/internal/config"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := config.EnsureDB(); err != nil {
		respondError(c, http.StatusInternalServerError, "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"database": "ok"})
}
