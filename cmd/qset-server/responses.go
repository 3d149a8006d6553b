package main

import (
	"io"
	"strconv"

	"qset.lopezb.com/internal/quickset"
)

// Replies that never change are encoded once.
var (
	respOK   = []byte("+OK\r\n")
	respPong = []byte("+PONG\r\n")
	respZero = []byte(":0\r\n")
	respOne  = []byte(":1\r\n")
	respNil  = []byte("$-1\r\n")
)

// Every reply is assembled in one buffer and handed to w in a single Write,
// so a reply is never split across flushes.

func appendLine(buf []byte, prefix byte, s string) []byte {
	buf = append(buf, prefix)
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

func appendInt(buf []byte, i int64) []byte {
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, i, 10)
	return append(buf, '\r', '\n')
}

func appendBulk(buf []byte, s string) []byte {
	buf = append(buf, '$')
	buf = strconv.AppendInt(buf, int64(len(s)), 10)
	buf = append(buf, '\r', '\n')
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

func appendArrayHeader(buf []byte, n int) []byte {
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(n), 10)
	return append(buf, '\r', '\n')
}

func (app *application) writeSimpleStringResponse(w io.Writer, s string) error {
	switch s {
	case "OK":
		_, err := w.Write(respOK)
		return err
	case "PONG":
		_, err := w.Write(respPong)
		return err
	}
	_, err := w.Write(appendLine(make([]byte, 0, len(s)+3), '+', s))
	return err
}

func (app *application) writeErrorResponse(w io.Writer, msg string) error {
	_, err := w.Write(appendLine(make([]byte, 0, len(msg)+3), '-', msg))
	return err
}

func (app *application) writeBulkStringResponse(w io.Writer, s string) error {
	_, err := w.Write(appendBulk(make([]byte, 0, len(s)+16), s))
	return err
}

func (app *application) writeIntegerResponse(w io.Writer, i int64) error {
	switch i {
	case 0:
		_, err := w.Write(respZero)
		return err
	case 1:
		_, err := w.Write(respOne)
		return err
	}
	_, err := w.Write(appendInt(make([]byte, 0, 24), i))
	return err
}

func (app *application) writeNilResponse(w io.Writer) error {
	_, err := w.Write(respNil)
	return err
}

// writeIntegerArrayResponse writes keys as a flat array of integers.
func (app *application) writeIntegerArrayResponse(w io.Writer, values []int) error {
	buf := appendArrayHeader(make([]byte, 0, 8+len(values)*6), len(values))
	for _, v := range values {
		buf = appendInt(buf, int64(v))
	}
	_, err := w.Write(buf)
	return err
}

// writeCountArrayResponse writes counts as a flat array of integers.
func (app *application) writeCountArrayResponse(w io.Writer, counts []uint32) error {
	buf := appendArrayHeader(make([]byte, 0, 8+len(counts)*6), len(counts))
	for _, c := range counts {
		buf = appendInt(buf, int64(c))
	}
	_, err := w.Write(buf)
	return err
}

// writeEntriesResponse writes entries as an array of [member, count] pairs.
//
//	*2\r\n *2\r\n:3\r\n:5\r\n *2\r\n:7\r\n:3\r\n
func (app *application) writeEntriesResponse(w io.Writer, entries []quickset.Entry) error {
	buf := appendArrayHeader(make([]byte, 0, 8+len(entries)*16), len(entries))
	for _, e := range entries {
		buf = appendArrayHeader(buf, 2)
		buf = appendInt(buf, int64(e.Key))
		buf = appendInt(buf, int64(e.Count))
	}
	_, err := w.Write(buf)
	return err
}
