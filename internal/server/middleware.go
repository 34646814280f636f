package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles each client IP with its own token bucket.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(s.limiter.Burst()))
		if !s.limiter.Allow(c.ClientIP()) {
			s.metrics.RecordRateLimited(c.FullPath())
			c.Header("Retry-After", "1")
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
