// Package http exposes the coach availability API over gin. Session auth
// lives in front of this service; the router only requires the coach
// identity header the gateway injects.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CoachIDHeader carries the authenticated coach identity.
const CoachIDHeader = "X-Coach-ID"

// NewRouter wires middleware and the coach slot routes onto a fresh engine.
func NewRouter(s *SlotsServer, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1/coach")
	api.Use(requireCoachID())
	{
		api.GET("/slots", s.ListSlots)
		api.GET("/slots/weekly", s.LoadSchedule)
		api.POST("/slots", s.Publish)
		api.DELETE("/slots/:id", s.DeleteSlot)
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", CoachIDHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}

func requireCoachID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(CoachIDHeader) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + CoachIDHeader + " header",
			})
			return
		}
		c.Next()
	}
}
