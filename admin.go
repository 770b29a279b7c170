// admin.go - token-guarded access to the privacy-conscious analytics
package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/logger"
)

const bearerPrefix = "Bearer "

// adminAuthMiddleware accepts only "Authorization: Bearer <token>".
func adminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		given, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": adminUnauthorized})
			return
		}
		c.Next()
	}
}

func setupAdminRoutes(r *gin.Engine, s *server) {
	admin := r.Group("/admin")
	admin.Use(adminAuthMiddleware(s.token))

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.stats.Stats(c.Request.Context(), time.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": adminStatsFailed})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Same payload as /api/stats, as a file download for backups
	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.stats.Stats(c.Request.Context(), time.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": adminStatsFailed})
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+adminExportName)
		s.log.Info("Admin stats exported", logger.String("client", s.tracker.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.stats.PruneBefore(c.Request.Context(), time.Now().Add(-s.retain))
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": adminCleanupDone, "removed": removed})
	})
}
