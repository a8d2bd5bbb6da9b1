package server

import (
	"net/http"
	"sync"

	"github.com/desertthunder/albumsync/internal/formatter"
	"github.com/desertthunder/albumsync/internal/tasks"
)

// StatusHandler serves the health and last report of a scheduled sync.
type StatusHandler struct {
	mu     sync.RWMutex
	report *tasks.RunReport
	err    error
}

// NewStatusHandler returns a handler with no recorded pass.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Record stores the outcome of a pass. Safe for concurrent use with ServeHTTP.
func (h *StatusHandler) Record(report *tasks.RunReport, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = report
	h.err = err
}

func (h *StatusHandler) Routes() []string {
	return []string{"GET /healthz", "GET /status"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	report, err := h.report, h.err
	h.mu.RUnlock()

	switch r.URL.Path {
	case "/healthz":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("last sync failed: " + err.Error() + "\n"))
			return
		}
		w.Write([]byte("ok\n"))
	case "/status":
		if report == nil {
			http.Error(w, "no sync has completed yet", http.StatusNotFound)
			return
		}
		data, jerr := formatter.ReportToJSON(report)
		if jerr != nil {
			http.Error(w, jerr.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

// NewStatusRouter wires h behind request logging and panic recovery.
func NewStatusRouter(h *StatusHandler, middleware ...Middleware) *BasicRouter {
	router := NewBasicRouter()
	router.Use(middleware...)
	router.Handler(h)
	return router
}
