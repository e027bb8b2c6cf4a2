package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/rate"
)

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(rule rate.Rule, client string) rate.Decision {
	return rate.Decision{Allowed: false, ResetIn: 1500 * time.Millisecond}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/limited", RateLimit(rate.NewMemory(), rate.PerMinute("test", 2)), ok)
	r.GET("/denied", RateLimit(denyAllLimiter{}, rate.PerMinute("test", 1)), ok)
	r.GET("/off", RateLimit(denyAllLimiter{}, rate.PerMinute("test", 0)), ok)

	for i, remaining := range []string{"1", "0"} {
		resp := get(r, "/limited", "")
		if resp.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, resp.Code)
		}
		if got := resp.Header().Get("X-RateLimit-Remaining"); got != remaining {
			t.Fatalf("request %d: expected %s remaining, got %q", i, remaining, got)
		}
	}
	if resp := get(r, "/limited", ""); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}

	resp := get(r, "/denied", "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}

	if resp := get(r, "/off", ""); resp.Code != http.StatusNoContent {
		t.Fatalf("disabled limit: expected 204, got %d", resp.Code)
	}
}
