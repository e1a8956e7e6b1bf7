package protocol

import (
	"bytes"
	"strings"
)

// Reassembler turns an arbitrary sequence of byte chunks from one
// connection into complete newline-terminated messages.
// It is not safe for concurrent use; each connection owns one.
type Reassembler struct {
	buf []byte
}

// Feed appends chunk and returns every message completed by it, in order.
// A trailing partial message stays buffered until a later chunk ends it.
func (r *Reassembler) Feed(chunk []byte) []string {
	r.buf = append(r.buf, chunk...)

	var out []string
	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			break
		}
		out = append(out, strings.TrimSpace(string(r.buf[:i])))
		r.buf = r.buf[i+1:]
	}

	// release the backing array once everything has been consumed
	if len(r.buf) == 0 {
		r.buf = nil
	}
	return out
}

// Buffered reports how many bytes of an incomplete message are held.
func (r *Reassembler) Buffered() int {
	return len(r.buf)
}
