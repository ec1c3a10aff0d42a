// Package server runs the config portal over HTTP.
//
// It wraps net/http.Server with the lifecycle the CLI needs: bind, serve
// until an interrupt or SIGTERM, then drain open requests for up to
// DefaultShutdownTimeout. Open connections are tracked through the
// ConnState hook so the count can be reported and logged.
//
// # Usage
//
//	srv := server.New(&server.Config{Host: "0.0.0.0", Port: 80}, p.Handler())
//	if err := srv.Start(); err != nil {
//	    logging.Fatal("server failed", zap.Error(err))
//	}
//
// Tests and embedders that manage their own lifetime use Serve with a
// context instead of Start.
package server
