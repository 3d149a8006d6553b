// handlers_stats.go implements the MEMORY command.

package main

import (
	"fmt"
	"io"
	"strings"

	"qset.lopezb.com/internal/quickset"
)

// setOverhead approximates what a stored set costs beyond its buffers: the
// Set header, three slice headers and the map entry.
const setOverhead = 192

// handleMemory handles the MEMORY command.
// Syntax: MEMORY USAGE <key>
func (app *application) handleMemory(w io.Writer, args []string) {
	if len(args) < 1 {
		app.wrongNumberOfArgsResponse(w, "MEMORY")
		return
	}

	subcommand := strings.ToUpper(args[0])

	switch subcommand {
	case "USAGE":
		app.handleMemoryUsage(w, args[1:])
	default:
		msg := fmt.Sprintf("ERR unknown subcommand '%s'. Try MEMORY USAGE <key>", subcommand)
		_ = app.writeErrorResponse(w, msg)
	}
}

// handleMemoryUsage replies with an estimate of the bytes held by key, or nil
// if the key does not exist.
func (app *application) handleMemoryUsage(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "MEMORY USAGE")
		return
	}

	key := args[0]
	size := -1

	app.store.View(key, func(set *quickset.Set) {
		if set != nil {
			size = len(key) + set.Footprint() + setOverhead
		}
	})

	if size < 0 {
		_ = app.writeNilResponse(w)
		return
	}

	_ = app.writeIntegerResponse(w, int64(size))
}
