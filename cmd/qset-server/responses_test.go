package main

import (
	"bytes"
	"testing"

	"qset.lopezb.com/internal/quickset"
)

func TestWriteIntegerResponse(t *testing.T) {
	app := &application{}

	tests := []struct {
		input int64
		want  string
	}{
		{0, ":0\r\n"},
		{1, ":1\r\n"},
		{-1, ":-1\r\n"},
		{4294967295, ":4294967295\r\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := app.writeIntegerResponse(&buf, tt.input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != tt.want {
			t.Errorf("%d: got %q, want %q", tt.input, buf.String(), tt.want)
		}
	}
}

func TestWriteBulkStringResponse(t *testing.T) {
	app := &application{}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "hello", "$5\r\nhello\r\n"},
		{"empty", "", "$0\r\n\r\n"},
		{"crlf inside", "a\r\nb", "$4\r\na\r\nb\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := app.writeBulkStringResponse(&buf, tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteArrayResponses(t *testing.T) {
	app := &application{}
	var buf bytes.Buffer

	_ = app.writeIntegerArrayResponse(&buf, []int{3, 70000})
	if buf.String() != "*2\r\n:3\r\n:70000\r\n" {
		t.Errorf("integer array: got %q", buf.String())
	}

	buf.Reset()
	_ = app.writeCountArrayResponse(&buf, nil)
	if buf.String() != "*0\r\n" {
		t.Errorf("empty count array: got %q", buf.String())
	}

	buf.Reset()
	_ = app.writeEntriesResponse(&buf, []quickset.Entry{{Key: 3, Count: 5}, {Key: 7, Count: 3}})
	if buf.String() != "*2\r\n*2\r\n:3\r\n:5\r\n*2\r\n:7\r\n:3\r\n" {
		t.Errorf("entries: got %q", buf.String())
	}
}

func TestWriteSimpleAndError(t *testing.T) {
	app := &application{}
	var buf bytes.Buffer

	_ = app.writeSimpleStringResponse(&buf, "QUEUED")
	_ = app.writeSimpleStringResponse(&buf, "OK")
	_ = app.writeErrorResponse(&buf, "ERR boom")
	_ = app.writeNilResponse(&buf)

	if buf.String() != "+QUEUED\r\n+OK\r\n-ERR boom\r\n$-1\r\n" {
		t.Errorf("got %q", buf.String())
	}
}
