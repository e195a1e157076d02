package stats

import (
	"time"

	"logmon/internal/counter"
	"logmon/internal/window"
)

// Snapshot is the immutable view of all aggregates published at each
// flush. The monitor builds a fresh Snapshot and hands it to the
// reporters and the API handler; nothing mutates it afterwards.
type Snapshot struct {
	GeneratedAt  time.Time       `json:"generated_at"`
	Hosts        []counter.Entry `json:"hosts"`
	Resources    []counter.Entry `json:"resources"`
	Hours        []window.Entry  `json:"hours"`
	BlockedHosts []string        `json:"blocked_hosts"`
	Lines        int64           `json:"lines"`
	Skipped      int64           `json:"skipped"`
}
