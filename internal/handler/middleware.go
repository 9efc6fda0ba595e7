package handler

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("http request")
	}
}

// minLimiterIdle is the shortest time a client limiter is kept after its last request.
const minLimiterIdle = time.Minute

// IPRateLimiter manages per-IP rate limiters. Limiters idle long enough to have
// refilled their whole burst are dropped, since a fresh one behaves the same.
type IPRateLimiter struct {
	limiters      sync.Map
	rate          rate.Limit
	burst         int
	idleAfter     time.Duration
	lastSweepNano atomic.Int64
}

type clientLimiter struct {
	limiter      *rate.Limiter
	lastSeenNano atomic.Int64
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	idle := minLimiterIdle
	if r > 0 && r != rate.Inf {
		if refill := time.Duration(float64(burst) / float64(r) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}

	i := &IPRateLimiter{
		rate:      r,
		burst:     burst,
		idleAfter: idle,
	}
	i.lastSweepNano.Store(time.Now().UnixNano())
	return i
}

func (i *IPRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	v, ok := i.limiters.Load(ip)
	if !ok {
		v, _ = i.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(i.rate, i.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeenNano.Store(now.UnixNano())
	return cl.limiter
}

// maybeSweep runs sweep at most once per idle period.
func (i *IPRateLimiter) maybeSweep(now time.Time) {
	last := i.lastSweepNano.Load()
	if now.UnixNano()-last < int64(i.idleAfter) {
		return
	}
	if i.lastSweepNano.CompareAndSwap(last, now.UnixNano()) {
		i.sweep(now)
	}
}

// sweep drops the limiters of clients not seen for idleAfter and returns how many it removed.
func (i *IPRateLimiter) sweep(now time.Time) int {
	cutoff := now.Add(-i.idleAfter).UnixNano()
	removed := 0
	i.limiters.Range(func(key, v any) bool {
		if v.(*clientLimiter).lastSeenNano.Load() < cutoff {
			i.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (i *IPRateLimiter) size() int {
	n := 0
	i.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		i.maybeSweep(now)
		if !i.getLimiter(ip, now).Allow() {
			log.Warn().Str("client_ip", ip).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
