package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/session"
)

func respondAuthRequired(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    "authentication required",
		"redirect": service.LoginPath,
	})
}

// currentSession returns the request's session, anonymous if the middleware did not run
func currentSession(c *gin.Context) session.Session {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		return session.NewAnonymous("")
	}
	return sess
}
