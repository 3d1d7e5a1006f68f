package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"

	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP token bucket that blocks an address for blockTime
// once its bucket runs dry. It guards the batch endpoint, which is far more
// expensive than single report requests.
type RateLimiter struct {
	log       *zap.Logger
	limiters  map[string]*rate.Limiter
	blocked   map[string]time.Time
	mu        sync.Mutex
	requests  int
	per       time.Duration
	blockTime time.Duration
	now       func() time.Time
}

func NewRateLimiter(logger *zap.Logger, requests int, per, blockTime time.Duration) *RateLimiter {
	return &RateLimiter{
		log:       logger,
		limiters:  make(map[string]*rate.Limiter),
		blocked:   make(map[string]time.Time),
		requests:  requests,
		per:       per,
		blockTime: blockTime,
		now:       time.Now,
	}
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		if !l.allow(ip) {
			utils.BuildErrorResponse(l.log, w, exceptions.ErrTooManyRequests(ip))
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if blockedUntil, found := l.blocked[ip]; found {
		if now.Before(blockedUntil) {
			return false
		}
		delete(l.blocked, ip)
	}

	limiter, exists := l.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(l.per), l.requests)
		l.limiters[ip] = limiter
	}

	if !limiter.AllowN(now, 1) {
		l.blocked[ip] = now.Add(l.blockTime)
		return false
	}
	return true
}
