package kit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than limiterIdleTTL are dropped lazily on the next request.
type IPRateLimiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	hits  map[string]*ipLimiter
	swept time.Time
	now   func() time.Time
}

// NewIPRateLimiter allows perWindow requests per window for each IP, all of
// which may be spent at once.
func NewIPRateLimiter(perWindow int, window time.Duration) *IPRateLimiter {
	perWindow = max(perWindow, 1)
	return &IPRateLimiter{
		limit: rate.Every(window / time.Duration(perWindow)),
		burst: perWindow,
		hits:  make(map[string]*ipLimiter),
		now:   time.Now,
	}
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			WriteMessage(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > limiterIdleTTL {
		for k, v := range l.hits {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.hits, k)
			}
		}
		l.swept = now
	}

	e, ok := l.hits[ip]
	if !ok {
		e = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.hits[ip] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

func clientIP(r *http.Request) string {
	if ip := firstForwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}

	return r.RemoteAddr
}

func firstForwardedFor(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}
