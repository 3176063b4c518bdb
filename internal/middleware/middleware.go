package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middlewares
const (
	RequestIDKey     = "requestID"
	ManagerIDKey     = "managerID"
	ManagerEmailKey  = "managerEmail"
	ManagerRoleKey   = "managerRole"
	ParticipantIDKey = "participantID"
	CampaignIDKey    = "campaignID"
)

// CORSMiddleware is a middleware for CORS. The request origin is echoed back when it is allowed.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.AllowedHosts))
	for _, h := range cfg.Server.AllowedHosts {
		allowed[h] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Observability assigns a request id, records prometheus metrics and writes the access log
func Observability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Set(RequestIDKey, rid)

		c.Next()

		lat := time.Since(start).Seconds()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, path).Observe(lat)

		logx.L().Infow("http_access",
			"rid", rid,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", lat,
			"client_ip", c.ClientIP(),
		)
	}
}
