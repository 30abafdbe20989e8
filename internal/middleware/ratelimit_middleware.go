package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/ratelimit"
)

// RateLimit caps requests to the wrapped handler per remote address,
// answering 429 when the caller's window is full.
func RateLimit(limiter *ratelimit.SlidingWindow, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !limiter.Allow("addr:"+host, time.Now()) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
