package httpserver

import (
	"net/http"
	"time"
)

// Timeouts sized for the governance API: every endpoint reads a small
// JSON body and answers from one or two store round-trips, so a request
// that takes longer than a few seconds is stuck, not busy. Idle
// connections are kept long enough for operator tooling that polls.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 2 * time.Minute
	maxHeaderBytes    = 1 << 20
)

// New builds the HTTP server serving the governance API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
}
