package main

import (
	"fmt"
	"io"

	"qset.lopezb.com/internal/resp"
)

func (app *application) unknownCommandResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR unknown command '%s'", commandName))
}

func (app *application) wrongNumberOfArgsResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR wrong number of arguments for '%s' command", commandName))
}

func (app *application) notIntegerResponse(w io.Writer) {
	_ = app.writeErrorResponse(w, "ERR value is not an integer or out of range")
}

func (app *application) syntaxErrorResponse(w io.Writer) {
	_ = app.writeErrorResponse(w, "ERR syntax error")
}

// setErrorResponse reports a failed set construction or resize. The
// quickset error text already names the parameter and its valid range.
func (app *application) setErrorResponse(w io.Writer, err error) {
	_ = app.writeErrorResponse(w, "ERR "+err.Error())
}

func (app *application) spanLimitResponse(w io.Writer, span int) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR span %d exceeds the server limit of %d", span, app.config.maxSpan))
}

// replyTooLargeResponse rejects a reply with more elements than a client
// will accept in one array.
func (app *application) replyTooLargeResponse(w io.Writer, n uint64) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR reply too large: %d elements exceeds the limit of %d", n, resp.MaxArrayLen))
}
