// Package report writes the flushed aggregate views to plain text files
// in the output directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logmon/internal/metrics"
	"logmon/internal/stats"
)

const (
	hostsFile     = "hosts.txt"
	resourcesFile = "resources.txt"
	hoursFile     = "hours.txt"
	blockedFile   = "blocked.txt"
	metricsFile   = "metrics.json"
)

// Writer owns the report files. The ranked views (hosts, resources,
// hours) are rewritten whole on every flush so each file always holds the
// current standing; blocked.txt is an append-only running log.
type Writer struct {
	dir     string
	blocked *os.File
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	blocked, err := os.OpenFile(filepath.Join(dir, blockedFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open blocked log: %w", err)
	}
	return &Writer{dir: dir, blocked: blocked}, nil
}

// WriteSnapshot rewrites the ranked views and the metrics export from the
// given snapshot.
func (w *Writer) WriteSnapshot(snap *stats.Snapshot) error {
	hosts := make([]string, len(snap.Hosts))
	for i, e := range snap.Hosts {
		hosts[i] = fmt.Sprintf("%s,%d", e.Key, e.Value)
	}
	if err := w.writeLines(hostsFile, hosts); err != nil {
		return err
	}

	resources := make([]string, len(snap.Resources))
	for i, e := range snap.Resources {
		resources[i] = e.Key
	}
	if err := w.writeLines(resourcesFile, resources); err != nil {
		return err
	}

	hours := make([]string, len(snap.Hours))
	for i, e := range snap.Hours {
		hours[i] = fmt.Sprintf("%s,%d", e.Stamp, e.Count)
	}
	if err := w.writeLines(hoursFile, hours); err != nil {
		return err
	}

	return w.writeMetrics(snap)
}

// AppendBlocked appends one raw log line to the blocked-host running log.
func (w *Writer) AppendBlocked(line string) error {
	if _, err := fmt.Fprintln(w.blocked, line); err != nil {
		return fmt.Errorf("append blocked log: %w", err)
	}
	return nil
}

func (w *Writer) writeLines(name string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeMetrics(snap *stats.Snapshot) error {
	data, err := json.Marshal(metrics.Transform(snap))
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	path := filepath.Join(w.dir, metricsFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.blocked.Close()
}
