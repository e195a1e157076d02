package guardian

import "time"

// ring is a fixed-capacity buffer of instants, oldest evicted first.
type ring struct {
	buf   []time.Time
	head  int
	count int
}

func newRing(size int) *ring {
	return &ring{buf: make([]time.Time, size)}
}

func (r *ring) add(t time.Time) {
	if r.count == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
	} else {
		r.count++
	}
	r.buf[(r.head+r.count-1)%len(r.buf)] = t
}

func (r *ring) len() int {
	return r.count
}

func (r *ring) oldest() time.Time {
	return r.buf[r.head]
}

func (r *ring) newest() time.Time {
	return r.buf[(r.head+r.count-1)%len(r.buf)]
}
