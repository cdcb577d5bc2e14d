package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"golang.org/x/time/rate"
)

// idleAfter is how long a client may stay quiet before its bucket is dropped.
const idleAfter = 10 * time.Minute

var active atomic.Pointer[IPRateLimiter]

func init() {
	InitRateLimiter(config.RATE_LIMIT_PER_SECOND, config.BURST_RATE_LIMIT_PER_SECOND)
}

// InitRateLimiter swaps in a fresh limiter; buckets of the previous one are discarded.
func InitRateLimiter(rps float64, burst int) {
	active.Store(NewIPRateLimiter(rate.Limit(rps), burst))
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*client),
		limit:   r,
		burst:   b,
		now:     time.Now,
	}
}

// GetLimiter returns the bucket for ip, creating it on first sight.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleAfter {
		l.sweep(now)
	}
	c, ok := l.clients[ip]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.bucket
}

// Len reports how many clients currently hold a bucket.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > idleAfter {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func withinRate(s *scope) *rejection {
	ip := clientIP(s.r)
	res := active.Load().GetLimiter(ip).Reserve()
	if !res.OK() {
		return &rejection{code: http.StatusTooManyRequests, message: "Rate limit exceeded"}
	}
	if wait := res.Delay(); wait > 0 {
		res.Cancel()
		s.log.Warn("Too many requests", "ip", ip)
		return &rejection{code: http.StatusTooManyRequests, message: "Rate limit exceeded", retryAfter: wait}
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

//TODO: move the per-ip buckets to redis once more than one api instance runs
