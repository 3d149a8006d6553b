// Package resp implements the subset of the Redis Serialization Protocol
// (RESP2) spoken by qset-server.
//
// A server reads commands in two shapes:
//
//	array:  *2\r\n$4\r\nQS.GET\r\n$3\r\nkey\r\n
//	inline: QS.GET key\r\n
//
// Inline commands exist for redis-cli, redis-benchmark and netcat sessions.
// A client reads replies, one of the five RESP2 types.
//
// Limits
// ======
//
// Length prefixes are checked before anything is allocated, so a peer cannot
// force a large allocation by announcing a huge bulk string or array. Lines
// without a terminating newline are cut off at MaxLineSize.
package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

const (
	// MaxBulkLength matches Redis's proto-max-bulk-len default.
	MaxBulkLength = 512 * 1024 * 1024

	// MaxArrayLen caps the element count of one array.
	MaxArrayLen = 1 << 20

	// MaxLineSize caps a header or inline command line.
	MaxLineSize = 64 * 1024
)

// Errors carry the RESP error prefix so a server can send them verbatim.
var (
	ErrInvalidSyntax = errors.New("ERR protocol error: invalid syntax")
	ErrLineTooLong   = errors.New("ERR protocol error: line too long")
	ErrBulkTooLarge  = errors.New("ERR protocol error: bulk string exceeds 512MB limit")
	ErrArrayTooLong  = errors.New("ERR protocol error: array exceeds 1M elements limit")
)

// Reader decodes RESP from a byte stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader with a 4KB buffer over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 4096)}
}

// Buffered returns the number of bytes already read from the connection but
// not yet decoded. A nonzero value means the peer pipelined more commands.
func (p *Reader) Buffered() int {
	return p.r.Buffered()
}

// ReadCommand reads one command, in array or inline form, and returns its
// parts. An empty array yields an empty slice.
func (p *Reader) ReadCommand() ([]string, error) {
	line, err := p.line()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, ErrInvalidSyntax
	}
	if line[0] == '*' {
		return p.array(line[1:])
	}
	return inline(line)
}

func (p *Reader) line() ([]byte, error) {
	line, more, err := p.r.ReadLine()
	if err != nil {
		return nil, err
	}
	if !more {
		return line, nil
	}

	// The line outgrew the buffer. ReadLine's slice is only valid until the
	// next read, so accumulate a copy.
	var buf bytes.Buffer
	buf.Write(line)
	for more {
		line, more, err = p.r.ReadLine()
		if err != nil {
			return nil, err
		}
		if buf.Len()+len(line) > MaxLineSize {
			return nil, ErrLineTooLong
		}
		buf.Write(line)
	}
	return buf.Bytes(), nil
}

func inline(line []byte) ([]string, error) {
	fields := bytes.Fields(line)
	if len(fields) == 0 {
		return nil, ErrInvalidSyntax
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return parts, nil
}

func (p *Reader) array(header []byte) ([]string, error) {
	n, err := atoi(header)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		// *0 and the null array *-1.
		return []string{}, nil
	}
	if n > MaxArrayLen {
		return nil, ErrArrayTooLong
	}

	parts := make([]string, 0, n)
	for range n {
		line, err := p.line()
		if err != nil {
			return nil, err
		}
		if len(line) == 0 || line[0] != '$' {
			return nil, ErrInvalidSyntax
		}
		s, _, err := p.bulk(line[1:])
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return parts, nil
}

// bulk reads the payload of a bulk string whose length header has been
// consumed. The null bulk string ($-1) reads as "" with null set.
func (p *Reader) bulk(header []byte) (s string, null bool, err error) {
	n, err := atoi(header)
	if err != nil {
		return "", false, err
	}
	switch {
	case n == -1:
		return "", true, nil
	case n < 0:
		return "", false, ErrInvalidSyntax
	case n > MaxBulkLength:
		return "", false, ErrBulkTooLarge
	}

	// Payload and trailing CRLF in one read.
	buf := make([]byte, n+2)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return "", false, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return "", false, ErrInvalidSyntax
	}
	return string(buf[:n]), false, nil
}

func atoi(b []byte) (int, error) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil {
		return 0, ErrInvalidSyntax
	}
	return n, nil
}
