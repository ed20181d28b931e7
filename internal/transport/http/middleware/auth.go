package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jogai-backend/internal/pkg/jwtutil"
)

const (
	ContextUserIDKey   = "auth_user_id"
	ContextUsernameKey = "auth_username"
)

// AuthOptional resolves the caller from a Bearer token when one is presented.
// The legacy client ships user ids in the request body instead of tokens, so
// a missing or invalid header never aborts the request; handlers fall back to
// the body fields.
func AuthOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if strings.HasPrefix(authHeader, prefix) {
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
			if claims, err := jwtutil.ParseToken(secret, token); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// UserIDFromContext returns the token-authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := raw.(uint)
	return userID, ok
}
