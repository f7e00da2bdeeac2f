package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/arpa-network/randcast-controller/module"
)

// LoggingMiddleware creates a middleware which adds a logger interceptor to each request to log the request method, uri,
// duration and response code
func LoggingMiddleware(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			respWriter := newResponseWriter(w)
			handler.ServeHTTP(respWriter, req)

			log := logger.Debug()
			if respWriter.statusCode >= http.StatusInternalServerError {
				log = logger.Error()
			}
			log.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("client_ip", req.RemoteAddr).
				Str("user_agent", req.UserAgent()).
				Dur("duration", time.Since(start)).
				Int("response_code", respWriter.statusCode).
				Msg("api")
		})
	}
}

// MetricsMiddleware records the request count, latency and response size of
// every request, labelled with the name of the matched route.
func MetricsMiddleware(restCollector module.RestMetrics) mux.MiddlewareFunc {
	metricsMiddleware := middleware.New(middleware.Config{Recorder: restCollector})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			routeName := "unknown"
			if route := mux.CurrentRoute(req); route != nil && route.GetName() != "" {
				routeName = route.GetName()
			}
			restCollector.AddTotalRequests(req.Context(), req.Method, routeName)

			// the route name is known only once mux matched the request
			std.Handler(routeName, metricsMiddleware, next).ServeHTTP(w, req)
		})
	}
}

// responseWriter is a wrapper around http.ResponseWriter and helps capture the response code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
