package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ipLimiters hands out a per-IP token bucket: 20 req/s, burst 50. The map is
// reset when it grows past maxTrackedIPs instead of aging entries out.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

const maxTrackedIPs = 10000

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.limiters) > maxTrackedIPs {
		l.limiters = make(map[string]*rate.Limiter)
	}
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(20), 50)
		l.limiters[ip] = lim
	}
	return lim
}

// RequestID tags every request with a unique ID for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("RequestID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger logs every request with timing and status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= 400 {
			ev = log.Warn()
		}
		ev.Str("event", "http_request").
			Str("request_id", c.GetString("RequestID")).
			Str("method", method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}

// RateLimit rejects clients exceeding the per-IP budget.
func RateLimit() gin.HandlerFunc {
	limiters := &ipLimiters{limiters: make(map[string]*rate.Limiter)}
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "rate limit exceeded, please slow down",
			})
			return
		}
		c.Next()
	}
}

// CORS allows the browser UI (served from a file or another origin) to call
// the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Timeout caps the request context deadline. Outbound exchange calls honor
// the context, so a stuck upstream surfaces as a context error rather than a
// hung handler.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
