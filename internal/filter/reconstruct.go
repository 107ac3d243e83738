package filter

import (
	"github.com/pkg/errors"

	"github.com/rkujawa/pngcodec/internal/adam7"
)

// ErrBadFilterType is surfaced when a scanline's leading filter-type byte
// is outside {0,1,2,3,4}.
var ErrBadFilterType = errors.New("filter: undefined scanline filter type")

type fstate int

const (
	fsStartPass fstate = iota
	fsStartLine
	fsFilterMode
	fsInline
	fsDone
	fsError
)

const padLen = 8

// Reconstructor drives the decode-side filter state machine
// (START -> START_PASS -> STARTLINE -> FILTERMODE -> INLINE) fused with
// the Adam7 pass schedule. It implements zlibio.Sink: feed it the raw
// bytes the zlib adapter inflates and it writes reconstructed pixels
// directly into the caller-owned destination blob.
type Reconstructor struct {
	geom     Geometry
	blob     []byte
	schedule []adam7.Pass
	passIdx  int

	thisLine, lastLine []byte

	row, col, linePos int
	pixelsLeft        int
	filterMode        int

	fstate fstate
	err    error
	carry  []byte
}

// NewReconstructor returns a Reconstructor ready to fill blob (which must
// be geom.Stride*geom.Height bytes, pre-zeroed) from an interlaced or
// non-interlaced byte stream.
func NewReconstructor(geom Geometry, blob []byte, interlaced bool) *Reconstructor {
	lineLen := padLen + geom.Stride + padLen
	return &Reconstructor{
		geom:     geom,
		blob:     blob,
		schedule: adam7.Schedule(interlaced),
		thisLine: make([]byte, lineLen),
		lastLine: make([]byte, lineLen),
		fstate:   fsStartPass,
	}
}

// Done reports whether every pass has been fully reconstructed.
func (r *Reconstructor) Done() bool { return r.fstate == fsDone }

// Err returns the sticky error once the reconstructor has latched, e.g.
// ErrBadFilterType.
func (r *Reconstructor) Err() error { return r.err }

// Drain implements zlibio.Sink: p is the next batch of raw (post-inflate)
// bytes. Bytes that don't complete a pending filter-type byte or pixel
// group are carried over to the next call.
func (r *Reconstructor) Drain(p []byte) error {
	if r.fstate == fsError {
		return r.err
	}
	buf := append(r.carry, p...)
	n := r.consume(buf)
	r.carry = append(r.carry[:0], buf[n:]...)
	if r.fstate == fsError {
		return r.err
	}
	return nil
}

func (r *Reconstructor) consume(data []byte) int {
	consumed := 0
	for {
		switch r.fstate {
		case fsStartPass:
			if !r.startPass() {
				r.fstate = fsDone
				continue
			}
			r.fstate = fsStartLine
		case fsStartLine:
			r.startLine()
			r.fstate = fsFilterMode
		case fsFilterMode:
			if consumed >= len(data) {
				return consumed
			}
			fm := data[consumed]
			consumed++
			if fm > 4 {
				r.err = ErrBadFilterType
				r.fstate = fsError
				return consumed
			}
			r.filterMode = int(fm)
			r.fstate = fsInline
		case fsInline:
			bpp := r.geom.BytesPerPixel()
			if len(data)-consumed < bpp {
				return consumed
			}
			group := data[consumed : consumed+bpp]
			consumed += bpp
			pass := r.schedule[r.passIdx]
			r.applyGroup(group, pass.ColInc)
			if r.pixelsLeft <= 0 {
				r.row += pass.RowInc
				if r.row >= r.geom.Height {
					r.passIdx++
					r.fstate = fsStartPass
				} else {
					r.fstate = fsStartLine
				}
			}
		case fsDone, fsError:
			return consumed
		}
	}
}

// startPass seeks to the next pass with non-empty output, zeroing both
// scratch lines so the new pass's first scanline sees an all-zero
// "last scanline". It reports false once every pass has been consumed.
func (r *Reconstructor) startPass() bool {
	for r.passIdx < len(r.schedule) {
		pass := r.schedule[r.passIdx]
		w, h := pass.Dimensions(r.geom.Width, r.geom.Height)
		if w == 0 || h == 0 {
			r.passIdx++
			continue
		}
		r.row = pass.StartRow
		for i := range r.thisLine {
			r.thisLine[i] = 0
		}
		for i := range r.lastLine {
			r.lastLine[i] = 0
		}
		return true
	}
	return false
}

func (r *Reconstructor) startLine() {
	r.thisLine, r.lastLine = r.lastLine, r.thisLine
	pass := r.schedule[r.passIdx]
	w, _ := pass.Dimensions(r.geom.Width, r.geom.Height)
	r.col = pass.StartCol
	r.linePos = 0
	r.pixelsLeft = w
}

// applyGroup reconstructs one bytes_per_pixel group of raw bytes and
// writes the resulting pixel(s) into the destination blob.
func (r *Reconstructor) applyGroup(group []byte, dcol int) {
	bpp := len(group)
	ppb := r.geom.PixelsPerByte()
	bd := r.geom.BitDepth

	for idx, raw := range group {
		pos := padLen + r.linePos + idx
		left := r.thisLine[pos-bpp]
		top := r.lastLine[pos]
		topleft := r.lastLine[pos-bpp]
		result := apply(r.filterMode, raw, left, top, topleft)
		r.thisLine[pos] = result

		if ppb > 1 {
			// Bit-distribution rule: the filter operates byte-wise, but a
			// reconstructed byte packs ppb pixels that must be spread
			// across the destination at the pass's column stride,
			// most-significant bit first. The last byte of a scanline may
			// pack fewer pixels than ppb; the leftover low bits are wire
			// padding and must not be distributed.
			v := result
			mask := byte(1<<uint(bd) - 1)
			for sp := 0; sp < ppb && r.pixelsLeft > 0; sp++ {
				colour := (v >> uint(8-bd)) & mask
				writeSubBytePixel(r.blob, r.geom.Stride, r.row, r.col, bd, colour)
				v <<= uint(bd)
				r.col += dcol
				r.pixelsLeft--
			}
		} else {
			off := r.row*r.geom.Stride + r.col*bpp + idx
			r.blob[off] = result
		}
	}
	r.linePos += bpp
	if ppb <= 1 {
		r.col += dcol
		r.pixelsLeft--
	}
}
