// Package counter implements the keyed accumulators behind the per-host
// visit and per-resource bandwidth views.
package counter

import (
	"sort"

	"logmon/internal/logger"
)

// Entry is one (key, total) pair in ranked output.
type Entry struct {
	Key   string `json:"key"`
	Value int64  `json:"value,omitempty"`
}

// Counter maps keys to running int64 totals. Totals only grow for the
// lifetime of the process; there is no eviction. First-seen order is kept
// so equal totals rank deterministically.
type Counter struct {
	counts map[string]int64
	seen   map[string]int
	next   int
}

func New() *Counter {
	return &Counter{
		counts: make(map[string]int64),
		seen:   make(map[string]int),
	}
}

// Update adds n to the key's total, creating the key at n if absent.
func (c *Counter) Update(key string, n int64) {
	if _, ok := c.counts[key]; !ok {
		c.seen[key] = c.next
		c.next++
	}
	c.counts[key] += n
}

// Total returns the current total for key, 0 if the key is unknown.
func (c *Counter) Total(key string) int64 {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.counts)
}

// TopN returns up to n entries sorted by total descending, ties broken by
// first-seen order. n is clamped to [1, Len()]. When includeValues is
// false the returned entries carry keys only.
func (c *Counter) TopN(n int, includeValues bool) []Entry {
	if len(c.counts) == 0 {
		return nil
	}
	if n > len(c.counts) {
		logger.Debugf("requested top %d of %d keys, returning all", n, len(c.counts))
		n = len(c.counts)
	}
	if n <= 0 {
		logger.Debugf("requested top %d, returning top 1", n)
		n = 1
	}

	entries := make([]Entry, 0, len(c.counts))
	for k, v := range c.counts {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return c.seen[entries[i].Key] < c.seen[entries[j].Key]
	})
	entries = entries[:n]

	if !includeValues {
		for i := range entries {
			entries[i].Value = 0
		}
	}
	return entries
}

// Snapshot returns a copy of the current totals.
func (c *Counter) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
