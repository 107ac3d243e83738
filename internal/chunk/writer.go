package chunk

import (
	"github.com/rkujawa/pngcodec/internal/bitio"
	"github.com/rkujawa/pngcodec/internal/crc32iso"
)

// Writer implements the encode-side chunk framer: reserve four bytes
// for the length, write the type (OR-ing in the flag bits),
// accumulate the payload while running the CRC, then backpatch the
// length and append the CRC. It buffers one chunk at a time in pending
// and lets the caller drain it in arbitrary-sized pieces via Consume,
// matching the encoder's bounded-output pump contract.
type Writer struct {
	pending   []byte
	lengthPos int
	crc       *crc32iso.Register
}

// NewWriter returns a Writer with no chunk in progress.
func NewWriter() *Writer {
	crc32iso.Init()
	return &Writer{crc: crc32iso.New()}
}

// Begin starts a new chunk of the given type, applying flags' case bits
// to the type letters as the wire format requires.
func (w *Writer) Begin(typ Type, flags Flags) {
	t := typ
	if flags.Ancillary {
		t[0] |= caseFlagBit
	}
	if flags.Private {
		t[1] |= caseFlagBit
	}
	if flags.Reserved {
		t[2] |= caseFlagBit
	}
	if flags.SafeToCopy {
		t[3] |= caseFlagBit
	}

	w.pending = append(w.pending, 0, 0, 0, 0)
	w.lengthPos = len(w.pending) - 4
	w.pending = append(w.pending, t[:]...)

	w.crc.Reset()
	w.crc.Write(t[:])
}

// Write appends payload bytes to the chunk in progress, folding them into
// the running CRC. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.pending = append(w.pending, p...)
	w.crc.Write(p)
	return len(p), nil
}

// End backpatches the chunk's length field and appends its CRC.
func (w *Writer) End() {
	length := len(w.pending) - w.lengthPos - 8
	bitio.PutBE32(w.pending[w.lengthPos:w.lengthPos+4], uint32(length))

	var crcBuf [4]byte
	bitio.PutBE32(crcBuf[:], w.crc.Sum32())
	w.pending = append(w.pending, crcBuf[:]...)
}

// Pending returns the bytes of finished (and in-progress) chunk data not
// yet drained by the caller.
func (w *Writer) Pending() []byte { return w.pending }

// Consume drops the first n bytes of Pending, compacting the remainder to
// the front. Callers invoke this after copying bytes into their own
// bounded output buffer.
func (w *Writer) Consume(n int) {
	if n <= 0 {
		return
	}
	copy(w.pending, w.pending[n:])
	w.pending = w.pending[:len(w.pending)-n]
	w.lengthPos -= n
}
