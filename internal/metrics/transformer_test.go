package metrics

import (
	"testing"
	"time"

	"logmon/internal/counter"
	"logmon/internal/stats"
)

func TestTransform(t *testing.T) {
	at := time.Unix(1700000000, 0)
	snap := &stats.Snapshot{
		GeneratedAt:  at,
		Hosts:        []counter.Entry{{Key: "h1", Value: 12}},
		Resources:    []counter.Entry{{Key: "/r", Value: 4096}},
		BlockedHosts: []string{"h1", "h2"},
		Skipped:      3,
	}

	points := Transform(snap)
	if len(points) != 4 {
		t.Fatalf("point count = %d, want 4", len(points))
	}

	byType := make(map[string]Point)
	for _, p := range points {
		byType[p.MetricType] = p
		if p.Timestamp != at.Unix()*1000 {
			t.Errorf("timestamp = %d, want milliseconds", p.Timestamp)
		}
	}

	if p := byType["visits"]; p.Key != "h1" || p.Value != 12 {
		t.Errorf("visits point = %+v", p)
	}
	if p := byType["bandwidth"]; p.Key != "/r" || p.Value != 4096 {
		t.Errorf("bandwidth point = %+v", p)
	}
	if p := byType["blocked_hosts"]; p.Value != 2 {
		t.Errorf("blocked_hosts point = %+v", p)
	}
	if p := byType["skipped_lines"]; p.Value != 3 {
		t.Errorf("skipped_lines point = %+v", p)
	}
}
