package chunk

import (
	"github.com/pkg/errors"

	"github.com/rkujawa/pngcodec/internal/bitio"
	"github.com/rkujawa/pngcodec/internal/crc32iso"
)

type state int

const (
	stateStart state = iota
	stateReadBlock
	stateReadCRC
	stateFinished
	stateError
)

var (
	// ErrImplementationLimit is surfaced when a non-IDAT chunk's payload
	// would overflow the framer's fixed assembly buffer.
	ErrImplementationLimit = errors.New("chunk: payload exceeds assembly buffer capacity")
	// ErrCRCMismatch is surfaced when a chunk's trailing CRC doesn't match
	// the CRC computed over its type and payload.
	ErrCRCMismatch = errors.New("chunk: CRC mismatch")
)

// IDATSink receives IDAT payload bytes as they stream past the framer,
// bypassing the assembly buffer entirely.
type IDATSink interface {
	Write(p []byte) (int, error)
}

// Result is a fully framed, CRC-verified chunk.
type Result struct {
	Type      Type
	Canonical Type
	Flags     Flags
	// Payload is nil for IDAT chunks: their bytes went to the IDATSink
	// instead of the assembly buffer.
	Payload []byte
}

// Framer implements the decode-side chunk state machine:
// START -> READ_BLK -> READ_CRC -> FINISHED (or ERROR). It is driven in
// pump style: Step is handed a view of however many bytes are currently
// buffered and returns how many of them it consumed.
type Framer struct {
	state state

	length    uint32
	remaining uint32
	typ       Type

	crc *crc32iso.Register

	assembly    []byte
	assemblyCap int

	idat     bool
	idatSink IDATSink

	lastErr error
}

// NewFramer returns a Framer streaming IDAT payloads to sink and bounding
// every other chunk's payload to assemblyCap bytes.
func NewFramer(sink IDATSink, assemblyCap int) *Framer {
	crc32iso.Init()
	return &Framer{
		state:       stateStart,
		crc:         crc32iso.New(),
		assembly:    make([]byte, 0, assemblyCap),
		assemblyCap: assemblyCap,
		idatSink:    sink,
	}
}

// Err reports whether the framer has latched its sticky error state.
func (f *Framer) Err() error {
	if f.state == stateError {
		return f.lastErr
	}
	return nil
}

// Step advances the chunk state machine using as much of buf as is
// needed. It returns the number of leading bytes of buf it consumed, and,
// once a chunk's CRC has been verified, a non-nil Result. Once latched
// into the error state, Step is a no-op returning the sticky error.
func (f *Framer) Step(buf []byte) (consumed int, res *Result, err error) {
	if f.state == stateFinished {
		f.state = stateStart
	}
	switch f.state {
	case stateStart:
		if len(buf) < 8 {
			return 0, nil, nil
		}
		f.length = bitio.BE32(buf[0:4])
		f.remaining = f.length
		copy(f.typ[:], buf[4:8])
		f.crc.Reset()
		f.crc.Write(buf[4:8])
		f.assembly = f.assembly[:0]
		f.idat = f.typ.Canonical() == TypeIDAT
		if f.length == 0 {
			f.state = stateReadCRC
		} else {
			f.state = stateReadBlock
		}
		return 8, nil, nil

	case stateReadBlock:
		n := len(buf)
		if uint32(n) > f.remaining {
			n = int(f.remaining)
		}
		if n == 0 {
			if f.remaining == 0 {
				f.state = stateReadCRC
			}
			return 0, nil, nil
		}
		f.crc.Write(buf[:n])
		if f.idat {
			if _, werr := f.idatSink.Write(buf[:n]); werr != nil {
				f.state, f.lastErr = stateError, werr
				return n, nil, werr
			}
		} else {
			if len(f.assembly)+n > f.assemblyCap {
				f.state, f.lastErr = stateError, ErrImplementationLimit
				return n, nil, ErrImplementationLimit
			}
			f.assembly = append(f.assembly, buf[:n]...)
		}
		f.remaining -= uint32(n)
		if f.remaining == 0 {
			f.state = stateReadCRC
		}
		return n, nil, nil

	case stateReadCRC:
		if len(buf) < 4 {
			return 0, nil, nil
		}
		want := bitio.BE32(buf[0:4])
		if want != f.crc.Sum32() {
			f.state, f.lastErr = stateError, ErrCRCMismatch
			return 4, nil, ErrCRCMismatch
		}
		f.state = stateFinished
		res = &Result{
			Type:      f.typ,
			Canonical: f.typ.Canonical(),
			Flags:     flagsOf(f.typ),
		}
		if !f.idat {
			payload := make([]byte, len(f.assembly))
			copy(payload, f.assembly)
			res.Payload = payload
		}
		return 4, res, nil

	default: // stateError
		return 0, nil, f.lastErr
	}
}
