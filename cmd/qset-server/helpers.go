package main

import (
	"net"
	"strconv"
	"time"

	"qset.lopezb.com/internal/quickset"
)

// writeResponse writes data straight to conn under a write deadline. It is
// used where no buffered writer exists yet, such as rejecting a connection.
func (app *application) writeResponse(conn net.Conn, data []byte) error {
	remoteAddr := conn.RemoteAddr().String()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		app.logger.Error("failed to set write deadline", "error", err, "remote_addr", remoteAddr)
		return err
	}
	if _, err := conn.Write(data); err != nil {
		app.logger.Error("failed to write response", "error", err, "remote_addr", remoteAddr)
		return err
	}
	return nil
}

// newDefaultSet builds the set a write command creates for a missing key.
func (app *application) newDefaultSet() (*quickset.Set, error) {
	return quickset.New(app.defaults)
}

// parseMember parses a set member. Negative members parse; the set ignores
// them like any other key outside its domain.
func parseMember(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func parseMembers(args []string) ([]int, bool) {
	members := make([]int, len(args))
	for i, a := range args {
		n, ok := parseMember(a)
		if !ok {
			return nil, false
		}
		members[i] = n
	}
	return members, true
}

// parseCount parses a count or weight, which must fit in 32 bits.
func parseCount(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err == nil
}

// parseLimit parses the optional trailing limit of a read command. No
// argument means no limit.
func parseLimit(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, true
	}
	return parseMember(args[0])
}
