package rest

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (that *statusRecorder) WriteHeader(status int) {
	that.status = status
	that.ResponseWriter.WriteHeader(status)
}

// handle registers a route whose latency is observed under its pattern.
func (that *Server) handle(pattern string, handler http.HandlerFunc) {
	that.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handler(recorder, r)

		that.metrics.ObserveRequest(pattern, recorder.status, time.Since(start))
	})
}
