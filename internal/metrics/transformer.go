package metrics

import "logmon/internal/stats"

type Point struct {
	Timestamp  int64   `json:"timestamp"`
	Value      float64 `json:"value"`
	Key        string  `json:"key"`
	MetricType string  `json:"type"`
}

// Transform flattens a snapshot into metric points. Timestamps are in
// milliseconds (Grafana convention).
func Transform(snap *stats.Snapshot) []Point {
	ts := snap.GeneratedAt.Unix() * 1000

	var points []Point
	for _, e := range snap.Hosts {
		points = append(points, Point{
			Timestamp:  ts,
			Value:      float64(e.Value),
			Key:        e.Key,
			MetricType: "visits",
		})
	}
	for _, e := range snap.Resources {
		points = append(points, Point{
			Timestamp:  ts,
			Value:      float64(e.Value),
			Key:        e.Key,
			MetricType: "bandwidth",
		})
	}
	points = append(points, Point{
		Timestamp:  ts,
		Value:      float64(len(snap.BlockedHosts)),
		MetricType: "blocked_hosts",
	})
	points = append(points, Point{
		Timestamp:  ts,
		Value:      float64(snap.Skipped),
		MetricType: "skipped_lines",
	})

	return points
}
