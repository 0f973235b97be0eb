package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nkiryanov/movierater/internal/handlers/render"
)

const minIdleTTL = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP with token bucket per IP
// Buckets of clients idle longer than refill time are dropped
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time

	now func() time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	// Idle client bucket is full again after burst/limit, dropping it changes nothing
	ttl := minIdleTTL
	if limit > 0 && limit != rate.Inf {
		if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}

	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		idleTTL:   ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// PerMinute allows n requests per minute from one IP, all n may come at once
func PerMinute(n int) *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(float64(n)/60), n)
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter
}

// Must be called with mu held
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// Middleware answers 429 when client IP exceeds the rate
// Client IP is taken from RemoteAddr
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.limiter(ip).Allow() {
			render.ServiceError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
