package main

import (
	"io"
	"strings"
)

// CommandHandler handles one command. args excludes the command name.
// Replies go to w, normally a buffered writer over the connection.
type CommandHandler func(w io.Writer, args []string)

// Router maps upper-cased command names to handlers.
type Router struct {
	handlers map[string]CommandHandler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]CommandHandler)}
}

// Handle registers handler for name. Names are case-insensitive.
func (r *Router) Handle(name string, handler CommandHandler) {
	r.handlers[strings.ToUpper(name)] = handler
}

// Dispatch runs the handler for parts[0] and counts the command.
func (r *Router) Dispatch(app *application, w io.Writer, parts []string) {
	if len(parts) == 0 {
		return
	}

	name := strings.ToUpper(parts[0])
	app.metrics.TotalCommands.Add(1)

	handler, found := r.handlers[name]
	if !found {
		app.metrics.Commands.WithLabelValues("unknown").Inc()
		app.unknownCommandResponse(w, name)
		return
	}

	app.metrics.Commands.WithLabelValues(name).Inc()
	handler(w, parts[1:])
}
