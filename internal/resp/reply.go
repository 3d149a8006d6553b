package resp

import "fmt"

// Kind is the RESP2 type of a reply, identified by its first byte.
type Kind byte

const (
	SimpleString Kind = '+'
	Error        Kind = '-'
	Integer      Kind = ':'
	BulkString   Kind = '$'
	Array        Kind = '*'
)

// Reply is one decoded server reply. Str holds simple strings, errors and
// bulk strings; Int holds integers; Elems holds array elements. Null bulk
// strings and null arrays set Null.
type Reply struct {
	Kind  Kind
	Str   string
	Int   int64
	Elems []Reply
	Null  bool
}

// Err returns the reply as an error if it is a RESP error, nil otherwise.
func (r Reply) Err() error {
	if r.Kind != Error {
		return nil
	}
	return ServerError(r.Str)
}

// ServerError is an error reply sent by the peer.
type ServerError string

func (e ServerError) Error() string { return string(e) }

// ReadReply reads one reply. Nested arrays are decoded recursively.
func (p *Reader) ReadReply() (Reply, error) {
	line, err := p.line()
	if err != nil {
		return Reply{}, err
	}
	if len(line) == 0 {
		return Reply{}, ErrInvalidSyntax
	}

	kind, rest := Kind(line[0]), line[1:]
	switch kind {
	case SimpleString, Error:
		return Reply{Kind: kind, Str: string(rest)}, nil

	case Integer:
		n, err := atoi(rest)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: kind, Int: int64(n)}, nil

	case BulkString:
		s, null, err := p.bulk(rest)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: kind, Str: s, Null: null}, nil

	case Array:
		n, err := atoi(rest)
		if err != nil {
			return Reply{}, err
		}
		if n < 0 {
			return Reply{Kind: kind, Null: true}, nil
		}
		if n > MaxArrayLen {
			return Reply{}, ErrArrayTooLong
		}
		elems := make([]Reply, n)
		for i := range elems {
			if elems[i], err = p.ReadReply(); err != nil {
				return Reply{}, err
			}
		}
		return Reply{Kind: kind, Elems: elems}, nil

	default:
		return Reply{}, fmt.Errorf("%w: unknown reply type %q", ErrInvalidSyntax, line[0])
	}
}
