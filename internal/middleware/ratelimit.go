package middleware

import (
	"log"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/zhouzirui/z-shelf/backend/pkg/utils"
)

// RateLimit 对写操作做令牌桶限流；rps<=0 时直接放行
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow() {
				log.Printf("[ratelimit] rejecting %s %s", r.Method, r.URL.Path)
				utils.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
