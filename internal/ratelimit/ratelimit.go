// Package ratelimit caps requests per client address in fixed windows.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"coursell/backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TooManyRequestsMessage = "Too many requests from this IP, please try again later."

// Result describes the state of a key's current window after a hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration // until the window closes
}

type Limiter interface {
	// Allow counts one hit for key.
	Allow(ctx context.Context, key string) (Result, error)
}

func result(count, limit int, reset time.Duration) Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	if reset < 0 {
		reset = 0
	}
	return Result{Allowed: count <= limit, Limit: limit, Remaining: remaining, Reset: reset}
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}
	return ip
}

// Middleware rejects requests over the limit with 429 and sets the
// RateLimit-* headers. Limiter errors let the request through.
func Middleware(l Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)
		res, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(int(res.Reset.Round(time.Second)/time.Second)))

		if !res.Allowed {
			metrics.RateLimited.Inc()
			h.Set("Retry-After", strconv.Itoa(int(res.Reset.Round(time.Second)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": TooManyRequestsMessage})
			return
		}
		c.Next()
	}
}
