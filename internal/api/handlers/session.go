package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/session"
)

// PutSessionRequest hands a backend access token over from the login page
type PutSessionRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// HandlePutSession handles PUT /v1/session
func HandlePutSession(sessions *session.Manager, secureCookie bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		sessionID := middleware.EnsureSessionID(c, secureCookie)
		if err := sessions.SaveToken(c.Request.Context(), sessionID, req.AccessToken); err != nil {
			logger.Error("Failed to store session token", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}

		sess := session.Resolve(sessionID, req.AccessToken, time.Now())
		c.JSON(http.StatusOK, gin.H{
			"session_id": sessionID,
			"state":      sess.State().String(),
		})
	}
}

// HandleDeleteSession handles DELETE /v1/session
func HandleDeleteSession(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess.ID != "" {
			if err := sessions.Forget(c.Request.Context(), sess.ID); err != nil {
				logger.Error("Failed to forget session token", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
				return
			}
		}
		c.Status(http.StatusNoContent)
	}
}
