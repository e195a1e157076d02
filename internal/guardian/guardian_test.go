package guardian

import (
	"testing"
	"time"
)

var t0 = time.Date(1995, time.July, 1, 0, 0, 1, 0, time.FixedZone("EDT", -4*3600))

func TestBlockTrigger(t *testing.T) {
	g := New()
	g.RecordFailure("h", t0)
	g.RecordFailure("h", t0.Add(5*time.Second))
	if g.Blocked("h") {
		t.Fatal("blocked after only two failures")
	}
	g.RecordFailure("h", t0.Add(19*time.Second))
	if !g.Blocked("h") {
		t.Fatal("three failures spanning 19s did not block")
	}
	start, _ := g.BlockStart("h")
	if !start.Equal(t0.Add(19 * time.Second)) {
		t.Fatalf("block start = %v, want third failure instant", start)
	}
}

func TestNoBlockWhenSpread(t *testing.T) {
	g := New()
	g.RecordFailure("h", t0)
	g.RecordFailure("h", t0.Add(30*time.Second))
	g.RecordFailure("h", t0.Add(60*time.Second))
	if g.Blocked("h") {
		t.Fatal("failures spanning 60s should not block")
	}
}

func TestSpanBoundaryInclusive(t *testing.T) {
	g := New()
	g.RecordFailure("h", t0)
	g.RecordFailure("h", t0.Add(10*time.Second))
	g.RecordFailure("h", t0.Add(20*time.Second))
	if !g.Blocked("h") {
		t.Fatal("span of exactly 20s must trigger the block")
	}
}

// A fourth failure forming a new qualifying 3-entry window while the host
// is already blocked replaces the block start (later start wins).
func TestRetriggerReplacesBlockStart(t *testing.T) {
	g := New()
	g.RecordFailure("h", t0)
	g.RecordFailure("h", t0.Add(5*time.Second))
	g.RecordFailure("h", t0.Add(19*time.Second))

	// window is now t0+5s..t0+25s, exactly 20s
	g.RecordFailure("h", t0.Add(25*time.Second))
	start, _ := g.BlockStart("h")
	if !start.Equal(t0.Add(25 * time.Second)) {
		t.Fatalf("block start = %v, want the re-trigger instant", start)
	}
}

func TestUnblockBoundary(t *testing.T) {
	g := New()
	g.RecordFailure("h", t0)
	g.RecordFailure("h", t0.Add(time.Second))
	g.RecordFailure("h", t0.Add(2*time.Second))
	blockStart := t0.Add(2 * time.Second)

	g.Observe("h", blockStart.Add(299*time.Second))
	if !g.Blocked("h") {
		t.Fatal("unblocked 1s early")
	}

	// exactly block start + 300s is unblocked
	g.Observe("h", blockStart.Add(300*time.Second))
	if g.Blocked("h") {
		t.Fatal("observation at exactly +300s must unblock before any abuse check")
	}
}

func TestObserveUnknownHost(t *testing.T) {
	g := New()
	g.Observe("nobody", t0) // must not panic or create state
	if g.Blocked("nobody") {
		t.Fatal("observe created a block")
	}
}

func TestBlockedHostsSorted(t *testing.T) {
	g := New()
	for _, h := range []string{"zz", "aa"} {
		g.RecordFailure(h, t0)
		g.RecordFailure(h, t0.Add(time.Second))
		g.RecordFailure(h, t0.Add(2*time.Second))
	}
	got := g.BlockedHosts()
	if len(got) != 2 || got[0] != "aa" || got[1] != "zz" {
		t.Fatalf("blocked hosts = %v, want [aa zz]", got)
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r := newRing(3)
	for i := 0; i < 4; i++ {
		r.add(t0.Add(time.Duration(i) * time.Second))
	}
	if r.len() != 3 {
		t.Fatalf("len = %d, want 3", r.len())
	}
	if !r.oldest().Equal(t0.Add(time.Second)) {
		t.Fatalf("oldest = %v, want second insert", r.oldest())
	}
	if !r.newest().Equal(t0.Add(3 * time.Second)) {
		t.Fatalf("newest = %v, want last insert", r.newest())
	}
}
