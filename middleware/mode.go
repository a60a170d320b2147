package middleware

import (
	"net/http"

	"github.com/poketeams/pokedex-api/services"
)

// ServingMode stamps every response with the backend chosen by the most
// recent failover probe, so a client can tell it is running in offline
// mode.
func ServingMode(gateway *services.Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Data-Mode", string(gateway.Mode()))
			next.ServeHTTP(w, r)
		})
	}
}
