package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate verifies the bearer token and resolves it to a user record.
// Every code path ends in an explicit outcome: a Principal in the context,
// a 401, or a 404 when the token's subject no longer exists.
func Authenticate(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		userID, err := auth.Verify([]byte(config.Loaded.JWTSecret), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			}
			return
		}

		SetPrincipal(c, user)
		c.Next()
	}
}

// SetPrincipal stores the authenticated user on the request context.
func SetPrincipal(c *gin.Context, u models.User) {
	c.Set(principalKey, u)
}

// GetPrincipal returns the authenticated user stored by Authenticate.
func GetPrincipal(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
