// Package parse turns raw access log lines into structured records.
//
// Expected line shape:
//
//	host - - [timestamp] "method resource protocol" status bytes
//
// The quoted request segment and the host field degrade independently: a
// malformed request never prevents extraction of the host, status or byte
// count. Status and byte count are mandatory; a line missing either is
// rejected as a whole.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"logmon/pkg/utils"

	lru "github.com/hashicorp/golang-lru"
)

var (
	timestampRe = regexp.MustCompile(`\[(.*?)\]`)
	requestRe   = regexp.MustCompile(`"(.*?)"`)
)

// Record is the parsed form of one log line. Optional fields are empty
// strings when their sub-field could not be located.
type Record struct {
	Host      string
	Timestamp string // raw bracketed timestamp
	Time      time.Time
	Method    string
	Resource  string
	Protocol  string
	Status    int
	Bytes     int64 // literal "-" in the log maps to 0
}

// Parser parses lines, memoizing timestamp parsing. Access logs repeat the
// same second-resolution stamp across many consecutive lines, so an LRU
// cache of raw stamp -> time.Time avoids most time.Parse calls.
type Parser struct {
	stamps *lru.Cache
}

func NewParser(stampCacheSize int) (*Parser, error) {
	c, err := lru.New(stampCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create stamp cache: %w", err)
	}
	return &Parser{stamps: c}, nil
}

// Parse converts one raw line into a Record. Invalid UTF-8 sequences are
// dropped before parsing. A nil error means Time, Status and Bytes are
// valid; Host, Method, Resource and Protocol may still be empty.
func (p *Parser) Parse(line string) (*Record, error) {
	line = strings.ToValidUTF8(line, "")
	rec := &Record{}

	if i := strings.Index(line, " - - "); i > 0 {
		rec.Host = line[:i]
	}

	m := timestampRe.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("missing timestamp field")
	}
	rec.Timestamp = m[1]
	t, err := p.parseStamp(m[1])
	if err != nil {
		return nil, fmt.Errorf("malformed timestamp %q: %w", m[1], err)
	}
	rec.Time = t

	if q := requestRe.FindStringSubmatch(line); q != nil {
		parts := strings.SplitN(q[1], " ", 3)
		if len(parts) > 0 {
			rec.Method = parts[0]
		}
		if len(parts) > 1 {
			rec.Resource = parts[1]
		}
		if len(parts) > 2 {
			rec.Protocol = parts[2]
		}
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("missing status and byte count fields")
	}
	status, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return nil, fmt.Errorf("malformed status code %q", fields[len(fields)-2])
	}
	rec.Status = status

	if last := fields[len(fields)-1]; last == "-" {
		rec.Bytes = 0
	} else {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed byte count %q", last)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative byte count %d", n)
		}
		rec.Bytes = n
	}

	return rec, nil
}

func (p *Parser) parseStamp(s string) (time.Time, error) {
	if v, ok := p.stamps.Get(s); ok {
		return v.(time.Time), nil
	}
	t, err := time.Parse(utils.StampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	p.stamps.Add(s, t)
	return t, nil
}
