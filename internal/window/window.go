// Package window turns exact-instant visit counts into forward-looking
// hourly sums: for every distinct observed instant t, the total number of
// visits in [t, t+1h).
package window

import (
	"sort"
	"time"

	"logmon/pkg/utils"
)

// Span is the length of each forward window.
const Span = time.Hour

// Entry is one (formatted stamp, window sum) pair.
type Entry struct {
	Stamp string `json:"stamp"`
	Count int64  `json:"count"`
}

// Buckets accumulates visit counts keyed by exact instant.
type Buckets struct {
	counts map[time.Time]int64
}

func NewBuckets() *Buckets {
	return &Buckets{counts: make(map[time.Time]int64)}
}

func (b *Buckets) Add(t time.Time, n int64) {
	b.counts[t] += n
}

func (b *Buckets) Len() int {
	return len(b.counts)
}

// Windowed returns one entry per distinct instant, in chronological order,
// where each entry's count is the sum of all buckets within Span of that
// instant (start inclusive, end exclusive).
//
// The running sum is maintained incrementally: moving the window start to
// the next instant subtracts the buckets that fell out and adds the ones
// that entered. This is equivalent to summing each window independently
// (see the property test) but costs amortized O(n) after the sort. The
// whole history is rescanned on every call, which is the known scaling
// limit of this design.
func (b *Buckets) Windowed() []Entry {
	if len(b.counts) == 0 {
		return nil
	}
	times := make([]time.Time, 0, len(b.counts))
	for t := range b.counts {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	out := make([]Entry, len(times))
	var sum int64
	lo, hi := 0, 0
	for i, t := range times {
		for lo < i {
			sum -= b.counts[times[lo]]
			lo++
		}
		for hi < len(times) && times[hi].Sub(t) < Span {
			sum += b.counts[times[hi]]
			hi++
		}
		out[i] = Entry{Stamp: utils.FormatStamp(t), Count: sum}
	}
	return out
}

// windowedNaive is the reference definition: each window summed
// independently by scanning forward from its start instant. Kept as the
// oracle for the property test.
func (b *Buckets) windowedNaive() []Entry {
	if len(b.counts) == 0 {
		return nil
	}
	times := make([]time.Time, 0, len(b.counts))
	for t := range b.counts {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	out := make([]Entry, len(times))
	for i, t := range times {
		sum := int64(0)
		for j := i; j < len(times) && times[j].Sub(t) < Span; j++ {
			sum += b.counts[times[j]]
		}
		out[i] = Entry{Stamp: utils.FormatStamp(t), Count: sum}
	}
	return out
}

// TopN returns up to n entries with the largest counts, ties kept in
// chronological order. n is clamped to [1, len(entries)].
func TopN(entries []Entry, n int) []Entry {
	if len(entries) == 0 {
		return nil
	}
	if n > len(entries) {
		n = len(entries)
	}
	if n <= 0 {
		n = 1
	}
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	return ranked[:n]
}
