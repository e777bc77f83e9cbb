package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retail-console/internal/session"
)

const sessionKey = "console-session"

// sessionAuth resolves the bearer session id into a session record. The
// browser never sees the upstream token, only the opaque session id.
func sessionAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing session"})
			return
		}

		sess, err := store.Get(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session expired or unknown"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || !sess.Identity().HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient role"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
