// Package monitor owns the follow-loop: it reads new log lines, routes
// parsed records to the aggregate views and the login guardian, and
// flushes reports whenever the input runs dry with unreported changes.
package monitor

import (
	"context"
	"net/http"
	"time"

	"logmon/internal/api"
	"logmon/internal/config"
	"logmon/internal/counter"
	"logmon/internal/guardian"
	"logmon/internal/logger"
	"logmon/internal/parse"
	"logmon/internal/report"
	"logmon/internal/stats"
	"logmon/internal/storage"
	"logmon/internal/tail"
	"logmon/internal/window"
)

// Monitor is the single owner of all mutable aggregate state. All tables
// are mutated from Run's goroutine only; the optional API handler sees
// nothing but published immutable snapshots.
type Monitor struct {
	cfg    *config.Config
	parser *parse.Parser
	reader *tail.Reader
	out    *report.Writer

	visits    *counter.Counter
	bandwidth *counter.Counter
	buckets   *window.Buckets
	guard     *guardian.Guardian

	handler *api.Handler   // nil when the API is disabled
	store   *storage.Store // nil when the Redis mirror is disabled

	ctx     context.Context
	stale   bool
	waiting bool
	lines   int64
	skipped int64
}

func New(cfg *config.Config, reader *tail.Reader, out *report.Writer) (*Monitor, error) {
	parser, err := parse.NewParser(cfg.StampCache)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		cfg:       cfg,
		parser:    parser,
		reader:    reader,
		out:       out,
		visits:    counter.New(),
		bandwidth: counter.New(),
		buckets:   window.NewBuckets(),
		guard:     guardian.New(),
		stale:     true,
	}, nil
}

// SetHandler attaches the stats API handler to receive snapshots.
func (m *Monitor) SetHandler(h *api.Handler) {
	m.handler = h
}

// SetStore attaches the Redis activity mirror.
func (m *Monitor) SetStore(s *storage.Store) {
	m.store = s
}

// Run drives the follow-loop until the input is exhausted (follow
// disabled) or ctx is cancelled. Records are processed strictly in file
// order. A final flush always runs before returning.
func (m *Monitor) Run(ctx context.Context) error {
	m.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			m.flush()
			logger.Infof("stopped after %d lines (%d skipped)", m.lines, m.skipped)
			return nil
		default:
		}

		line, ok, err := m.reader.Next()
		if err != nil {
			m.flush()
			return err
		}
		if ok {
			m.process(line)
			continue
		}

		// end of currently-written data
		if m.stale {
			m.flush()
		}
		if !m.cfg.Follow {
			logger.Infof("end of input after %d lines (%d skipped)", m.lines, m.skipped)
			return nil
		}
		if !m.waiting {
			logger.Debugf("awaiting changes in log at offset %d", m.reader.Offset())
			m.waiting = true
		}
		// cancellation during the wait is handled at the top of the loop
		sleep(ctx, m.cfg.PollInterval)
	}
}

func (m *Monitor) process(line string) {
	m.lines++
	m.waiting = false

	rec, err := m.parser.Parse(line)
	if err != nil {
		m.skipped++
		logger.Debugf("skipping line %d (%q): %v", m.lines, line, err)
		return
	}

	if rec.Host != "" {
		m.visits.Update(rec.Host, 1)
	}
	if rec.Resource != "" && rec.Bytes > 0 {
		m.bandwidth.Update(rec.Resource, rec.Bytes)
	}
	m.buckets.Add(rec.Time, 1)

	if rec.Host != "" {
		// expire the block before the abuse check so a request exactly
		// at the 300s boundary is treated as unblocked
		m.guard.Observe(rec.Host, rec.Time)
		if rec.Resource == "/login" && rec.Status == http.StatusUnauthorized {
			m.guard.RecordFailure(rec.Host, rec.Time)
		}
		blocked := m.guard.Blocked(rec.Host)
		if blocked {
			if err := m.out.AppendBlocked(line); err != nil {
				logger.Errorf("blocked log: %v", err)
			}
		}
		if m.store != nil {
			if err := m.store.RecordActivity(m.ctx, rec.Host, blocked, rec.Bytes, rec.Time); err != nil {
				logger.Warnf("redis mirror: %v", err)
			}
		}
	}

	m.stale = true
}

// flush recomputes the windowed series, writes every reporter and
// publishes the snapshot to the API handler.
func (m *Monitor) flush() {
	start := time.Now()
	snap := m.snapshot()
	if err := m.out.WriteSnapshot(snap); err != nil {
		logger.Errorf("write reports: %v", err)
	}
	if m.handler != nil {
		m.handler.Publish(snap)
	}
	m.stale = false
	logger.Debugf("flushed %d lines in %v", m.lines, time.Since(start))
}

func (m *Monitor) snapshot() *stats.Snapshot {
	return &stats.Snapshot{
		GeneratedAt:  time.Now(),
		Hosts:        m.visits.TopN(m.cfg.TopHosts, true),
		Resources:    m.bandwidth.TopN(m.bandwidth.Len(), true),
		Hours:        window.TopN(m.buckets.Windowed(), m.cfg.TopHours),
		BlockedHosts: m.guard.BlockedHosts(),
		Lines:        m.lines,
		Skipped:      m.skipped,
	}
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
