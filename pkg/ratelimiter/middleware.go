package ratelimiter

import (
	"net/http"
	"strconv"

	"github.com/farescope/quotakit/pkg/clientip"
)

// ActorFunc names the bucket owner for a request: typically a user ID when
// the request is authenticated, falling back to the client IP for guests.
type ActorFunc func(r *http.Request) string

// ActorByIP is the default actor: the client IP placed in the request
// context by the clientip middleware, or header extraction when that
// middleware has not run.
func ActorByIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// Guard meters one endpoint. Decisions surface in the X-RateLimit-*
// headers; denials answer 429 with Retry-After. A nil actor defaults to
// ActorByIP.
func Guard(l *Limiter, endpoint Endpoint, actor ActorFunc) func(http.Handler) http.Handler {
	if actor == nil {
		actor = ActorByIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := l.Allow(r.Context(), endpoint, actor(r))
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, decision.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed() {
				if retryAfter := int(decision.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
