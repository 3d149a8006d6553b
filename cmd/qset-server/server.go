package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"qset.lopezb.com/internal/resp"
)

const (
	writeTimeout              = 5 * time.Second
	rejectionTimeout          = 500 * time.Millisecond
	errMaxConnectionsResponse = "-ERR max number of clients reached\r\n"
)

// serve starts the TCP server and blocks until shutdown.
func (app *application) serve() error {
	//
	// DESIGN
	// ------
	//
	// connLimiter is a buffered channel used as a counting semaphore. The
	// accept loop tries a non-blocking send; when the channel is full the
	// client gets an error line and is dropped without spawning a goroutine.
	//
	// SIGINT or SIGTERM closes the listener, which ends the accept loop, then
	// waits on the WaitGroup for in-flight connections, bounded by
	// shutdownTimeout. The outcome comes back on shutdownError.
	//
	addr := fmt.Sprintf(":%d", app.config.port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	app.listener = ln

	serverAddr := ln.Addr().String()

	if app.readyCh != nil {
		close(app.readyCh)
	}

	shutdownError := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("caught signal", "signal", s.String(), "address", serverAddr)

		ctx, cancel := context.WithTimeout(context.Background(), app.config.shutdownTimeout)
		defer cancel()

		if app.admin != nil {
			if err := app.admin.Shutdown(ctx); err != nil {
				app.logger.Error("admin server shutdown failed", "error", err)
			}
		}

		if err := ln.Close(); err != nil {
			shutdownError <- err
			return
		}

		wgDone := make(chan struct{})
		go func() {
			app.wg.Wait()
			close(wgDone)
		}()

		select {
		case <-wgDone:
			shutdownError <- nil
		case <-ctx.Done():
			shutdownError <- ctx.Err()
		}
	}()

	app.logger.Info("server starting", "address", serverAddr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			app.logger.Error("failed to accept connection", "error", err, "address", serverAddr)
			continue
		}

		select {
		case app.connLimiter <- struct{}{}:
			app.wg.Add(1)
			go app.handleConnection(conn)
		default:
			app.logger.Info("rejecting connection, limit reached", "remote_addr", conn.RemoteAddr().String())

			// A client that never reads must not stall the accept loop.
			_ = conn.SetWriteDeadline(time.Now().Add(rejectionTimeout))

			_ = app.writeResponse(conn, []byte(errMaxConnectionsResponse))
			_ = conn.Close()
		}
	}

	err = <-shutdownError
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		app.logger.Error("server stopped with error", "error", err, "address", serverAddr)
		return err
	}

	app.logger.Info("server stopped gracefully", "address", serverAddr)
	return nil
}

// handleConnection runs the read-dispatch-flush loop for one client.
//
// Replies accumulate in a 4KB bufio.Writer. The writer is flushed only when
// the reader has nothing buffered, so a pipelined burst of commands is
// answered with one write.
func (app *application) handleConnection(conn net.Conn) {
	defer func() { <-app.connLimiter }()
	defer app.wg.Done()
	defer func() { _ = conn.Close() }()

	app.metrics.TotalConnections.Add(1)

	logger := app.logger.With(
		"conn_id", uuid.NewString(),
		"remote_addr", conn.RemoteAddr().String(),
	)
	logger.Info("new connection")

	reader := resp.NewReader(conn)
	writer := bufio.NewWriterSize(conn, 4096)

	// Replies to commands read before a protocol error still go out.
	defer func() { _ = writer.Flush() }()

	for {
		if app.config.idleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(app.config.idleTimeout)); err != nil {
				logger.Error("failed to set read deadline", "error", err)
				return
			}
		}

		parts, err := reader.ReadCommand()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("client disconnected")
			case errors.Is(err, resp.ErrInvalidSyntax),
				errors.Is(err, resp.ErrLineTooLong),
				errors.Is(err, resp.ErrBulkTooLarge),
				errors.Is(err, resp.ErrArrayTooLong):
				logger.Error("protocol error", "error", err)
				_ = app.writeErrorResponse(writer, err.Error())
			default:
				logger.Error("read error", "error", err)
			}
			return
		}

		app.router.Dispatch(app, writer, parts)

		if reader.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				logger.Error("failed to flush response", "error", err)
				return
			}
		}
	}
}
