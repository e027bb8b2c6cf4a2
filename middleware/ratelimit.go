package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/rate"
	"github.com/developersajeeb/code-stack-server/utils"
)

// RateLimit applies rule per client IP. The client IP comes from
// gin's ClientIP, so forwarded headers only count when the engine trusts the
// sending proxy. A disabled rule lets every request through.
func RateLimit(limiter rate.Limiter, rule rate.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rule.Enabled() {
			c.Next()
			return
		}

		d := limiter.Allow(rule, c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(d.Remaining, 0)))
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
