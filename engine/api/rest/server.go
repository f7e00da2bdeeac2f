// Package rest serves the controller's query surface and operations over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/module"
)

// NewServer returns an HTTP server initialized with the REST API handler
func NewServer(
	api API,
	tasks *TaskCache,
	listenAddress string,
	restCollector module.RestMetrics,
	subscribe http.Handler,
	logger zerolog.Logger,
) *http.Server {
	router := NewRouter(api, tasks, restCollector, subscribe, logger.With().Str("component", "rest_api").Logger())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
			http.MethodHead},
	})

	return &http.Server{
		Addr:         listenAddress,
		Handler:      c.Handler(router),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
}
