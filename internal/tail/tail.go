// Package tail reads complete lines from a growing file without ever
// re-reading consumed bytes. Partial trailing data is held back until its
// terminating newline is written.
package tail

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

const chunkSize = 4096

// Reader consumes a file line by line, keeping a bookmark of how many
// bytes have been handed out as complete lines.
type Reader struct {
	f       *os.File
	path    string
	offset  int64 // bytes consumed as complete lines
	pending []byte
	chunk   []byte
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Reader{f: f, path: path, chunk: make([]byte, chunkSize)}, nil
}

// Next returns the next complete line with its newline stripped (a
// trailing CR is stripped too). ok is false when no full line is
// available yet; callers poll again later. Any error other than reaching
// the current end of data is returned as err.
func (r *Reader) Next() (line string, ok bool, err error) {
	for {
		if i := bytes.IndexByte(r.pending, '\n'); i >= 0 {
			raw := r.pending[:i]
			r.pending = r.pending[i+1:]
			r.offset += int64(i + 1)
			if len(raw) > 0 && raw[len(raw)-1] == '\r' {
				raw = raw[:len(raw)-1]
			}
			return string(raw), true, nil
		}

		n, err := r.f.Read(r.chunk)
		if n > 0 {
			r.pending = append(r.pending, r.chunk[:n]...)
			continue
		}
		if err == io.EOF || err == nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", r.path, err)
	}
}

// Offset returns the bookmark: the number of bytes consumed as complete
// lines. Bytes buffered for a not-yet-terminated line are not counted.
func (r *Reader) Offset() int64 {
	return r.offset
}

func (r *Reader) Close() error {
	return r.f.Close()
}
