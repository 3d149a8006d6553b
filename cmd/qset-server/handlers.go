// handlers.go implements the server-level commands: PING, INFO, DEL and
// EXISTS.

package main

import (
	"fmt"
	"io"
	"strings"
)

// handlePing handles the PING command.
// Syntax: PING [message]
func (app *application) handlePing(w io.Writer, args []string) {
	switch len(args) {
	case 0:
		_ = app.writeSimpleStringResponse(w, "PONG")
	case 1:
		_ = app.writeBulkStringResponse(w, args[0])
	default:
		app.wrongNumberOfArgsResponse(w, "PING")
	}
}

// handleInfo handles the INFO command.
// Syntax: INFO
//
// The report follows the Redis INFO layout: # headed sections of
// CRLF-terminated key:value lines, sent as one bulk string.
func (app *application) handleInfo(w io.Writer, args []string) {
	if len(args) > 0 {
		app.wrongNumberOfArgsResponse(w, "INFO")
		return
	}

	var b strings.Builder

	b.WriteString("# Server\r\n")
	fmt.Fprintf(&b, "connections_total:%d\r\n", app.metrics.TotalConnections.Load())
	fmt.Fprintf(&b, "connections_active:%d\r\n", len(app.connLimiter))
	fmt.Fprintf(&b, "commands_processed_total:%d\r\n", app.metrics.TotalCommands.Load())
	b.WriteString("\r\n# Keyspace\r\n")
	fmt.Fprintf(&b, "sets:%d\r\n", app.store.Len())

	_ = app.writeBulkStringResponse(w, b.String())
}

// handleDel handles the DEL command.
// Syntax: DEL key [key ...]
//
// Returns the number of sets actually removed.
func (app *application) handleDel(w io.Writer, args []string) {
	if len(args) == 0 {
		app.wrongNumberOfArgsResponse(w, "DEL")
		return
	}

	count := 0
	for _, key := range args {
		if app.store.Delete(key) {
			count++
		}
	}

	_ = app.writeIntegerResponse(w, int64(count))
}

// handleExists handles the EXISTS command.
// Syntax: EXISTS key [key ...]
//
// A key named twice is counted twice, as in Redis.
func (app *application) handleExists(w io.Writer, args []string) {
	if len(args) == 0 {
		app.wrongNumberOfArgsResponse(w, "EXISTS")
		return
	}

	count := 0
	for _, key := range args {
		if app.store.Exists(key) {
			count++
		}
	}

	_ = app.writeIntegerResponse(w, int64(count))
}
