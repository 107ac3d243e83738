package filter

import "github.com/rkujawa/pngcodec/internal/adam7"

// Emitter drives the encode-side filter state machine. The current
// contract always emits filter type 0 (None); the per-line candidate
// slots below are reserved infrastructure for a future heuristic filter
// chooser and are not yet wired to anything.
type Emitter struct {
	geom     Geometry
	blob     []byte
	schedule []adam7.Pass
	passIdx  int
	row      int

	// candidates holds scratch space for the five filter types so a
	// future chooser can compute all of them before picking one; unused
	// while the contract is fixed at filter 0.
	candidates [5][]byte
}

// NewEmitter returns an Emitter that will walk blob (geom.Stride*geom.Height
// bytes, the source raster) pass by pass.
func NewEmitter(geom Geometry, blob []byte, interlaced bool) *Emitter {
	return &Emitter{
		geom:     geom,
		blob:     blob,
		schedule: adam7.Schedule(interlaced),
	}
}

// Step produces the next scanline, filter-type byte included, or reports
// done once every pass has been emitted.
func (e *Emitter) Step() (line []byte, done bool) {
	for e.passIdx < len(e.schedule) {
		pass := e.schedule[e.passIdx]
		w, h := pass.Dimensions(e.geom.Width, e.geom.Height)
		if w == 0 || h == 0 || e.row >= h {
			e.passIdx++
			e.row = 0
			continue
		}

		srcRow := pass.StartRow + e.row*pass.RowInc
		packedLen := (w*e.geom.BitDepth*e.geom.SamplesPerPixel + 7) / 8
		line = make([]byte, 1+packedLen) // line[0] == 0: filter type None
		e.packScanline(line[1:], pass, srcRow, w)
		e.row++
		return line, false
	}
	return nil, true
}

func (e *Emitter) packScanline(dst []byte, pass adam7.Pass, srcRow, w int) {
	ppb := e.geom.PixelsPerByte()
	if ppb <= 1 {
		bpp := e.geom.BytesPerPixel()
		for i := 0; i < w; i++ {
			srcCol := pass.StartCol + i*pass.ColInc
			srcOff := srcRow*e.geom.Stride + srcCol*bpp
			copy(dst[i*bpp:(i+1)*bpp], e.blob[srcOff:srcOff+bpp])
		}
		return
	}
	bd := e.geom.BitDepth
	for i := 0; i < w; i++ {
		srcCol := pass.StartCol + i*pass.ColInc
		val := readSubBytePixel(e.blob, e.geom.Stride, srcRow, srcCol, bd)
		writeSubBytePixel(dst, (w*bd+7)/8, 0, i, bd, val)
	}
}
