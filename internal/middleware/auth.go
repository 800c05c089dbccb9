package middleware

import (
	"net/http"

	"starship-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"

	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// RequireSession validates the session cookie and redirects to /login when it
// is missing, expired or forged.
func RequireSession(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			// drop the stale cookie so the browser stops sending it
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// Store user info in context for use in handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}

// CurrentUsername returns the username stored by RequireSession, or "".
func CurrentUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}
