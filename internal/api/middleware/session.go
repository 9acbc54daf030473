package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/session"
)

const (
	// SessionCookie carries the opaque browser session id
	SessionCookie = "sf_session"
	// SessionHeader is accepted instead of the cookie for non-browser callers
	SessionHeader = "X-Session-ID"

	sessionContextKey = "storefront.session"
	sessionMaxAge     = 30 * 24 * 60 * 60
)

// SessionMiddleware resolves the caller's session and stores it in the context.
// A caller without an id gets an anonymous session with an empty ID.
func SessionMiddleware(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}

		sess, err := sessions.Load(c.Request.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to load session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// GetSessionFromContext returns the session resolved by SessionMiddleware
func GetSessionFromContext(c *gin.Context) (session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return session.Session{}, false
	}
	sess, ok := value.(session.Session)
	return sess, ok
}

// EnsureSessionID returns the caller's session id, issuing a new one in a cookie if needed.
// A presented id is only kept when a token is already stored under it, so a caller cannot
// plant an id of its choosing before login.
func EnsureSessionID(c *gin.Context, secure bool) string {
	if sess, ok := GetSessionFromContext(c); ok && sess.ID != "" && sess.State() != session.Anonymous {
		return sess.ID
	}

	id := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", secure, true)
	return id
}
