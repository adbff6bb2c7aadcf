package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireAuth. Empty if not set.
func UserIDFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return ""
	}
	id, ok := v.(string)
	if !ok {
		return ""
	}
	return id
}

// RequireAuth returns a middleware that validates the Authorization bearer
// token and sets the current user ID in context. Missing or invalid tokens
// get 401; an expired token looks the same to the client, which treats any
// 401 as a "please log in again" condition.
func RequireAuth(tokens *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, err := tokens.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// RequireOwner rejects requests whose :user_id path parameter does not match
// the authenticated user. 403 here is deliberately distinct from 401: the
// client surfaces it as a session problem, not a login prompt.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("user_id") != UserIDFromContext(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
