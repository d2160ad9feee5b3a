// package server contains the loopback HTTP pieces of the OAuth sign-in flow
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler with behavior that runs around it.
type Middleware func(http.Handler) http.Handler

// Handler ties an http.Handler to the route patterns it serves.
// Patterns may carry an http.ServeMux method prefix ("GET /callback").
type Handler interface {
	http.Handler
	Routes() []string // patterns to register, one per route
}

// Router registers handlers and runs requests through a middleware chain.
type Router interface {
	Use(middleware ...Middleware)                     // appends to the chain
	Handle(method, path string, handler http.Handler) // registers a single pattern
	Handler(handler Handler)                          // registers every pattern the Handler reports
	ServeHTTP(w http.ResponseWriter, r *http.Request) // serves through the chain
}

// Logging returns [Middleware] that records each request and its duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
