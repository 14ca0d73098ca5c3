package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds every request except the listed paths, which are served directly so a health
// probe is never answered with the timeout body.
func Timeout(timeout time.Duration, exempt ...string) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, `{"message":"Request timed out"}`)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			// TimeoutHandler writes its body without a content type.
			w.Header().Set("Content-Type", "application/json")
			bounded.ServeHTTP(w, r)
		})
	}
}
