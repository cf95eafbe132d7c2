package httpclient

import (
	"io"
)

// DefaultMaxBodySize is the number of response body bytes buffered when no
// explicit cap is configured.
const DefaultMaxBodySize int64 = 1 << 20

// BodyKind classifies a captured response body.
type BodyKind int

const (
	BodyEmpty   BodyKind = iota // no bytes were read
	BodyFull                    // read to completion, fewer bytes than the cap
	BodyPartial                 // reading stopped at the cap
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyFull:
		return "full"
	case BodyPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Body is a bounded in-memory copy of a response body.
type Body struct {
	kind BodyKind
	data []byte
}

// Kind reports how the body was classified.
func (b Body) Kind() BodyKind {
	return b.kind
}

// Bytes returns a copy of the captured bytes. It is nil for an empty body.
func (b Body) Bytes() []byte {
	if b.kind == BodyEmpty {
		return nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the number of captured bytes.
func (b Body) Len() int {
	return len(b.data)
}

// Truncated reports whether the cap was reached. A body whose length equals
// the cap is reported as truncated because nothing more was read to prove
// otherwise.
func (b Body) Truncated() bool {
	return b.kind == BodyPartial
}

// Capture reads at most maxBodySize bytes from r and classifies the result.
// Bytes past the cap are left unread. A non-positive cap reads nothing and
// yields a partial body. Read errors are returned as is.
func Capture(r io.Reader, maxBodySize int64) (Body, error) {
	if maxBodySize <= 0 {
		return Body{kind: BodyPartial, data: []byte{}}, nil
	}

	var data []byte
	if r != nil {
		var err error
		data, err = io.ReadAll(io.LimitReader(r, maxBodySize))
		if err != nil {
			return Body{}, err
		}
	}

	n := int64(len(data))
	switch {
	case n == maxBodySize:
		return Body{kind: BodyPartial, data: data}, nil
	case n <= 0:
		return Body{kind: BodyEmpty}, nil
	default:
		return Body{kind: BodyFull, data: data}, nil
	}
}
