package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"qset.lopezb.com/internal/quickset"
	"qset.lopezb.com/internal/resp"
)

// batchSize caps the members sent in one QS.BATCH.
const batchSize = 512

// pusher replays a local set into a qset-server.
type pusher struct {
	conn   net.Conn
	reader *resp.Reader
	buf    []byte
}

func dialPusher(addr string, timeout time.Duration) (*pusher, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &pusher{conn: conn, reader: resp.NewReader(conn)}, nil
}

func (p *pusher) Close() error {
	return p.conn.Close()
}

// do sends one command and waits for its reply.
func (p *pusher) do(args ...string) (resp.Reply, error) {
	p.buf = resp.AppendCommand(p.buf[:0], args...)
	if _, err := p.conn.Write(p.buf); err != nil {
		return resp.Reply{}, err
	}
	reply, err := p.reader.ReadReply()
	if err != nil {
		return resp.Reply{}, err
	}
	return reply, reply.Err()
}

// createArgs builds the QS.CREATE command mirroring cfg.
func createArgs(key string, cfg quickset.Config) []string {
	args := []string{
		"QS.CREATE", key,
		"MODE", string(cfg.Mode),
		"CLIP", strconv.Itoa(cfg.Clip),
		"SPAN", strconv.Itoa(cfg.Span),
		"SLOT", strconv.Itoa(cfg.Slot),
		"HIGH", strconv.Itoa(cfg.High),
		"FREQ", strconv.Itoa(cfg.Freq),
	}
	if cfg.FIFO {
		args = append(args, "FIFO")
	}
	return args
}

// push creates key on the server with the configuration of set, unless it
// exists already, and adds every nonzero counter of set with QS.BATCH.
// It returns the number of QS.BATCH commands sent.
func (p *pusher) push(key string, set *quickset.Set) (int, error) {
	if _, err := p.do(createArgs(key, set.Config())...); err != nil {
		var serr resp.ServerError
		if !errors.As(err, &serr) || !strings.Contains(string(serr), "already exists") {
			return 0, fmt.Errorf("QS.CREATE %s: %w", key, err)
		}
	}

	keys := set.Keys(0)
	counts := set.Values(0)

	sent := 0
	for start := 0; start < len(keys); start += batchSize {
		end := min(start+batchSize, len(keys))

		args := make([]string, 0, 3+2*(end-start))
		args = append(args, "QS.BATCH", key)
		for _, k := range keys[start:end] {
			args = append(args, strconv.Itoa(k))
		}
		args = append(args, "WEIGHTS")
		for _, c := range counts[start:end] {
			args = append(args, strconv.FormatUint(uint64(c), 10))
		}

		if _, err := p.do(args...); err != nil {
			return sent, fmt.Errorf("QS.BATCH %s: %w", key, err)
		}
		sent++
	}
	return sent, nil
}
