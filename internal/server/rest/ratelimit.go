package rest

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
)

const limiterCleanupInterval = 5 * time.Minute

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	logger   logging.Logger
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows perMinute requests per client per minute, all of
// which may arrive in a burst. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int, l logging.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		logger:   l.With("module", "rate_limiter"),
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	if perMinute > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.burst <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !rl.get(ip).Allow() {
			rl.logger.Warn(r.Context(), "rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(1/float64(rl.limit))+1))
			writeMessage(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// size returns the number of tracked clients.
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now().Add(-limiterCleanupInterval))
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets clients idle since before cutoff.
func (rl *RateLimiter) cleanup(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cl := range rl.limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
