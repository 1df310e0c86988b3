package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	whitelistedIPs map[string]bool
	trustedProxies []*net.IPNet
}

func NewRateLimiter(perSecond float64, burst int, whitelist ...string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &RateLimiter{
		limit:          rate.Limit(perSecond),
		burst:          burst,
		limiters:       make(map[string]*rate.Limiter),
		whitelistedIPs: wl,
	}
}

// WithTrustedProxies lets requests relayed by these proxies be keyed on their
// X-Forwarded-For client instead of the proxy address.
func (rl *RateLimiter) WithTrustedProxies(nets []*net.IPNet) *RateLimiter {
	rl.trustedProxies = nets
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[ip] = limiter
	return limiter
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := common.ClientIP(r, rl.trustedProxies...)
			if rl.whitelistedIPs[ip] {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.getLimiter(ip).Allow() {
				common.RespondError(w, time.Now(), nil, constants.MsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
