package middleware

import (
	"net/http"
	"sync"

	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiters sync.Map // client ip -> *rate.Limiter
	rps      float64
	burst    int
}

func (l *rateLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RateLimit throttles each client IP with a token bucket. rps <= 0 disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 5
	}
	l := &rateLimiter{rps: rps, burst: burst}
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "error.rateLimited", "Too many requests, please slow down")
			return
		}
		c.Next()
	}
}
