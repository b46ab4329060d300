package ratelimit

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware throttles requests per client IP. When redis reports an error
// the request is allowed through and the error is logged.
func Middleware(l *Limiter, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.ErrorContext(c.Request.Context(), "rate limiter unavailable, allowing request",
				slog.String("error", err.Error()),
				slog.String("client_ip", c.ClientIP()),
			)
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
