// Package guardian tracks per-host login failures and enforces timed
// blocks: three failed logins within 20 seconds block the host for 5
// minutes.
package guardian

import (
	"sort"
	"time"

	"logmon/internal/logger"
	"logmon/pkg/utils"
)

const (
	maxAttempts = 3
	attemptSpan = 20 * time.Second
	blockFor    = 300 * time.Second
)

// Guardian is the per-host block state machine. Hosts move through three
// states: clean (no recent failures), watched (1-2 recent failures) and
// blocked. It is not safe for concurrent use; the monitor loop is its
// single owner.
type Guardian struct {
	attempts map[string]*ring
	blocked  map[string]time.Time
}

func New() *Guardian {
	return &Guardian{
		attempts: make(map[string]*ring),
		blocked:  make(map[string]time.Time),
	}
}

// Observe processes any observation of host at instant t, expiring the
// host's block once t reaches blockStart + 5 minutes (inclusive). It must
// run before the same observation is tested with Blocked, so a request
// exactly at the expiry boundary is treated as unblocked.
func (g *Guardian) Observe(host string, t time.Time) {
	start, ok := g.blocked[host]
	if !ok {
		return
	}
	if t.Sub(start) >= blockFor {
		delete(g.blocked, host)
		logger.Debugf("host %s unblocked at %s", host, utils.FormatStamp(t))
	}
}

// RecordFailure records a failed login for host at instant t. Only the
// most recent three failures are kept; when those three span 20 seconds
// or less the host is blocked starting at t. A qualifying window observed
// while the host is already blocked replaces the block start (the later
// block start wins).
func (g *Guardian) RecordFailure(host string, t time.Time) {
	r, ok := g.attempts[host]
	if !ok {
		r = newRing(maxAttempts)
		g.attempts[host] = r
	}
	r.add(t)

	if r.len() == maxAttempts && r.newest().Sub(r.oldest()) <= attemptSpan {
		g.blocked[host] = t
		logger.Infof("host %s blocked for 5 minutes starting at %s", host, utils.FormatStamp(t))
	}
}

// Blocked reports whether host currently has an active block.
func (g *Guardian) Blocked(host string) bool {
	_, ok := g.blocked[host]
	return ok
}

// BlockStart returns the instant the host's active block began.
func (g *Guardian) BlockStart(host string) (time.Time, bool) {
	t, ok := g.blocked[host]
	return t, ok
}

// BlockedHosts returns the currently blocked hosts in sorted order.
func (g *Guardian) BlockedHosts() []string {
	hosts := make([]string, 0, len(g.blocked))
	for h := range g.blocked {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
