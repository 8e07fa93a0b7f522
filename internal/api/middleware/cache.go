package middleware

import "net/http"

// NoCache marks every response as uncacheable. Clients poll for state,
// so a cached /api/* response would hide fresh mutations from them.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
