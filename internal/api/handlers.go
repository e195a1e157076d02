// Package api serves the most recently flushed aggregates over HTTP. The
// monitor publishes an immutable snapshot at each flush; handlers only
// ever read the published pointer, so they never touch live tables.
package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"logmon/internal/logger"
	"logmon/internal/metrics"
	"logmon/internal/stats"
)

type Handler struct {
	snap atomic.Pointer[stats.Snapshot]
}

func NewHandler() *Handler {
	return &Handler{}
}

// Publish makes snap the view served by all endpoints.
func (h *Handler) Publish(snap *stats.Snapshot) {
	h.snap.Store(snap)
}

// Register attaches all stats endpoints to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/hosts", h.HandleHosts)
	mux.HandleFunc("/api/stats/resources", h.HandleResources)
	mux.HandleFunc("/api/stats/hours", h.HandleHours)
	mux.HandleFunc("/api/stats/blocked", h.HandleBlocked)
	mux.HandleFunc("/api/metrics", h.HandleMetrics)
}

func (h *Handler) HandleHosts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	sendJSONResponse(w, HostsResponse{
		GeneratedAt: snap.GeneratedAt.Format(time.RFC3339),
		Entries:     snap.Hosts,
	}, http.StatusOK)
}

func (h *Handler) HandleResources(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	sendJSONResponse(w, HostsResponse{
		GeneratedAt: snap.GeneratedAt.Format(time.RFC3339),
		Entries:     snap.Resources,
	}, http.StatusOK)
}

func (h *Handler) HandleHours(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	sendJSONResponse(w, HoursResponse{
		GeneratedAt: snap.GeneratedAt.Format(time.RFC3339),
		Entries:     snap.Hours,
	}, http.StatusOK)
}

func (h *Handler) HandleBlocked(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	sendJSONResponse(w, BlockedResponse{
		GeneratedAt: snap.GeneratedAt.Format(time.RFC3339),
		Hosts:       snap.BlockedHosts,
	}, http.StatusOK)
}

func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	sendJSONResponse(w, metrics.Transform(snap), http.StatusOK)
}

// current loads the published snapshot, writing the error response itself
// when the request cannot be served.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) (*stats.Snapshot, bool) {
	if r.Method != http.MethodGet {
		sendJSONResponse(w, HostsResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
		return nil, false
	}
	snap := h.snap.Load()
	if snap == nil {
		sendJSONResponse(w, HostsResponse{Error: "no snapshot available yet"}, http.StatusServiceUnavailable)
		return nil, false
	}
	logger.Debugf("serving %s to %s", r.URL.Path, r.RemoteAddr)
	return snap, true
}

func sendJSONResponse(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}
