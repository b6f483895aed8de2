package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"nalewka/internal/config"

	"golang.org/x/time/rate"
)

const limiterIdleEviction = 3 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket. It is meant for the
// credential endpoints, where unauthenticated callers can probe passwords.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*ipLimiter
	rps     rate.Limit
	burst   int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	l := &RateLimiter{
		clients: make(map[string]*ipLimiter),
		rps:     rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
	}
	go l.evictIdle()
	return l
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[ip]
	if !ok {
		client = &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (l *RateLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)

		l.mu.Lock()
		for ip, client := range l.clients {
			if time.Since(client.lastSeen) > limiterIdleEviction {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from the forwarding
	// headers before this runs.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
