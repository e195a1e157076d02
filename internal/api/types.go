package api

import (
	"logmon/internal/counter"
	"logmon/internal/window"
)

// HostsResponse is the response for /api/stats/hosts and
// /api/stats/resources style views.
type HostsResponse struct {
	GeneratedAt string          `json:"generated_at,omitempty"`
	Entries     []counter.Entry `json:"entries,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// HoursResponse is the response for /api/stats/hours.
type HoursResponse struct {
	GeneratedAt string         `json:"generated_at,omitempty"`
	Entries     []window.Entry `json:"entries,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// BlockedResponse is the response for /api/stats/blocked.
type BlockedResponse struct {
	GeneratedAt string   `json:"generated_at,omitempty"`
	Hosts       []string `json:"hosts,omitempty"`
	Error       string   `json:"error,omitempty"`
}
