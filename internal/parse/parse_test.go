package parse

import (
	"testing"
	"time"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(64)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseFullLine(t *testing.T) {
	p := newTestParser(t)
	rec, err := p.Parse(`199.72.81.55 - - [01/Jul/1995:00:00:01 -0400] "GET /history/apollo/ HTTP/1.0" 200 6245`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Host != "199.72.81.55" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.Timestamp != "01/Jul/1995:00:00:01 -0400" {
		t.Errorf("raw timestamp = %q", rec.Timestamp)
	}
	want := time.Date(1995, time.July, 1, 0, 0, 1, 0, time.FixedZone("", -4*3600))
	if !rec.Time.Equal(want) {
		t.Errorf("time = %v, want %v", rec.Time, want)
	}
	if rec.Method != "GET" || rec.Resource != "/history/apollo/" || rec.Protocol != "HTTP/1.0" {
		t.Errorf("request = %q %q %q", rec.Method, rec.Resource, rec.Protocol)
	}
	if rec.Status != 200 || rec.Bytes != 6245 {
		t.Errorf("status/bytes = %d/%d", rec.Status, rec.Bytes)
	}
}

func TestParseDashBytes(t *testing.T) {
	p := newTestParser(t)
	rec, err := p.Parse(`remote - - [01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" 304 -`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Bytes != 0 {
		t.Fatalf("dash byte count = %d, want 0", rec.Bytes)
	}
}

// A malformed request segment must not block extraction of the other fields.
func TestParseDegradedRequest(t *testing.T) {
	p := newTestParser(t)

	rec, err := p.Parse(`10.0.0.1 - - [01/Jul/1995:00:00:01 -0400] "GET" 400 0`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Method != "GET" || rec.Resource != "" || rec.Protocol != "" {
		t.Errorf("partial request = %q %q %q", rec.Method, rec.Resource, rec.Protocol)
	}
	if rec.Host != "10.0.0.1" || rec.Status != 400 {
		t.Errorf("host/status lost with partial request: %q/%d", rec.Host, rec.Status)
	}

	rec, err = p.Parse(`10.0.0.1 - - [01/Jul/1995:00:00:01 -0400] 400 0`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Method != "" || rec.Resource != "" || rec.Protocol != "" {
		t.Errorf("missing request should leave empty fields, got %q %q %q", rec.Method, rec.Resource, rec.Protocol)
	}
}

func TestParseMissingHost(t *testing.T) {
	p := newTestParser(t)
	rec, err := p.Parse(`[01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" 200 10`)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Host != "" {
		t.Fatalf("host = %q, want empty", rec.Host)
	}
}

func TestParseFatalFields(t *testing.T) {
	p := newTestParser(t)
	for _, line := range []string{
		`h - - [01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" twohundred 10`, // bad status
		`h - - [01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" 200 ten`,       // bad bytes
		`h - - [not a timestamp] "GET / HTTP/1.0" 200 10`,                   // bad timestamp
		`h - - "GET / HTTP/1.0" 200 10`,                                     // no timestamp
		`garbage`,
		``,
	} {
		if _, err := p.Parse(line); err == nil {
			t.Errorf("line %q parsed without error", line)
		}
	}
}

func TestParseDropsInvalidUTF8(t *testing.T) {
	p := newTestParser(t)
	line := "10.0.0.1 - - [01/Jul/1995:00:00:01 -0400] \"GET /a\xff\xfe HTTP/1.0\" 200 10"
	rec, err := p.Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Resource != "/a" {
		t.Fatalf("resource = %q, want invalid bytes dropped", rec.Resource)
	}
}

func TestStampCacheHit(t *testing.T) {
	p := newTestParser(t)
	line := `h - - [01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" 200 10`
	first, err := p.Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Time.Equal(second.Time) {
		t.Fatal("cached stamp differs from parsed stamp")
	}
}
