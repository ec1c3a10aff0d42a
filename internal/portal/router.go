package portal

import (
	"net/http"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/gorilla/mux"
)

// Handler returns the portal routes: the index, the config page and the
// captive-portal aware not-found handler.
func (p *Portal) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/", p.HandleRoot).Methods(http.MethodGet)
	r.HandleFunc("/config", p.HandleConfig).Methods(http.MethodGet, http.MethodPost)
	// Middleware only runs on matched routes.
	r.NotFoundHandler = logRequests(http.HandlerFunc(p.HandleNotFound))
	r.MethodNotAllowedHandler = logRequests(http.HandlerFunc(p.HandleNotFound))
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.Host, r.URL.Path, rec.status)
	})
}
