package pngcodec

import (
	"log"

	"github.com/pkg/errors"

	"github.com/rkujawa/pngcodec/internal/bitio"
	"github.com/rkujawa/pngcodec/internal/chunk"
	"github.com/rkujawa/pngcodec/internal/filter"
	"github.com/rkujawa/pngcodec/internal/pngcolor"
	"github.com/rkujawa/pngcodec/internal/zlibio"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

var (
	ErrNotPNG     = errors.New("pngcodec: missing PNG signature")
	ErrOutOfSpecs = errors.New("pngcodec: stream violates PNG specification")
	ErrNoIHDR     = errors.New("pngcodec: first chunk is not IHDR")
)

// Debug, when set, traces skipped and ignored chunks to the standard
// logger. Normal operation is silent; the codec's hot path never logs.
var Debug bool

type decodeState int

const (
	decOff decodeState = iota
	decStart
	decIdentified
	decIHDR
	decReadIDATs
	decFinished
	decError
)

// assemblyCap bounds the chunk framer's non-IDAT payload buffer, matching
// the 32 KiB scratch allocations described for the context's resources.
const assemblyCap = 32 * 1024

// Decoder drives the top-level decode state machine
// (OFF -> START -> IDENTIFIED -> IHDR -> READ_IDATS -> FINISHED/ERROR),
// delegating chunk framing to chunk.Framer, decompression to
// zlibio.Inflater and pixel reconstruction to filter.Reconstructor. It is
// a pump: Write accepts however many bytes the caller currently has and
// returns how many it consumed, never blocking on bytes that haven't
// arrived yet.
type Decoder struct {
	info  *ImageInfo
	state decodeState

	sigConsumed int

	framer  *chunk.Framer
	inf     *zlibio.Inflater
	recon   *filter.Reconstructor
	lastErr error
}

// NewDecoder returns a Decoder that will populate a fresh ImageInfo as
// the stream is consumed.
func NewDecoder() *Decoder {
	d := &Decoder{info: NewImageInfo(), state: decStart}
	d.info.Status |= StatusLoading
	d.framer = chunk.NewFramer(pendingIDATSink{d}, assemblyCap)
	return d
}

// Info returns the descriptor being populated. It is safe to read at any
// time; fields are only meaningful once Finished reports true.
func (d *Decoder) Info() *ImageInfo { return d.info }

// Finished reports whether decoding has reached a terminal state
// (success or error).
func (d *Decoder) Finished() bool { return d.state == decFinished || d.state == decError }

// pendingIDATSink defers to d.inf once IDENTIFIED has created the
// Inflater; chunk.NewFramer needs a sink before that Inflater exists.
type pendingIDATSink struct{ d *Decoder }

func (s pendingIDATSink) Write(p []byte) (int, error) {
	if s.d.inf == nil {
		return len(p), nil
	}
	return s.d.inf.Write(p)
}

// Write feeds more wire bytes in, returning the number consumed. Call it
// repeatedly as bytes arrive; check Finished and Info().Status for the
// outcome.
func (d *Decoder) Write(buf []byte) (consumed int) {
	for consumed < len(buf) {
		switch d.state {
		case decStart:
			n := d.feedSignature(buf[consumed:])
			consumed += n
			if n == 0 {
				return consumed
			}
		case decIdentified, decIHDR, decReadIDATs:
			n, res, err := d.framer.Step(buf[consumed:])
			consumed += n
			if err != nil {
				bit := StatusIDATErr
				if errors.Is(err, chunk.ErrCRCMismatch) {
					bit = StatusCRCErr
				} else if errors.Is(err, chunk.ErrImplementationLimit) {
					bit = StatusImpLimit
				}
				d.fail(bit, err)
				return consumed
			}
			if res == nil {
				if n == 0 {
					return consumed
				}
				continue
			}
			if err := d.dispatch(res); err != nil {
				return consumed
			}
		default:
			return consumed
		}
	}
	return consumed
}

func (d *Decoder) feedSignature(buf []byte) int {
	n := 0
	for n < len(buf) && d.sigConsumed < len(pngSignature) {
		if buf[n] != pngSignature[d.sigConsumed] {
			d.fail(StatusNoPNG, ErrNotPNG)
			return n + 1
		}
		d.sigConsumed++
		n++
	}
	if d.sigConsumed == len(pngSignature) {
		d.state = decIdentified
	}
	return n
}

func (d *Decoder) dispatch(res *chunk.Result) error {
	switch {
	case d.state == decIdentified:
		if res.Canonical != chunk.TypeIHDR {
			d.fail(StatusOutOfSpecs, ErrNoIHDR)
			return ErrNoIHDR
		}
		if err := d.handleIHDR(res.Payload); err != nil {
			return err
		}
		d.state = decReadIDATs
		return nil
	case d.state == decReadIDATs:
		return d.handleBodyChunk(res)
	}
	return nil
}

func (d *Decoder) handleIHDR(p []byte) error {
	if len(p) != 13 {
		d.fail(StatusOutOfSpecs, ErrOutOfSpecs)
		return ErrOutOfSpecs
	}
	width := int(bitio.BE32(p[0:4]))
	height := int(bitio.BE32(p[4:8]))
	bitDepth := int(p[8])
	ct := pngcolor.Type(p[9])
	compression := int(p[10])
	filterMethod := int(p[11])
	interlace := int(p[12])

	if compression != 0 || filterMethod != 0 || interlace > 1 {
		d.fail(StatusOutOfSpecs, ErrOutOfSpecs)
		return ErrOutOfSpecs
	}
	if width == 0 || height == 0 {
		d.fail(StatusOutOfSpecs, ErrOutOfSpecs)
		return ErrOutOfSpecs
	}
	if err := d.info.PopulateAndAllocate(width, height, bitDepth, ct); err != nil {
		d.fail(StatusOutOfSpecs, err)
		return err
	}
	d.info.Interlace = interlace
	d.info.Compression = compression
	d.info.Filter = filterMethod

	geom := filter.Geometry{
		Width: width, Height: height,
		BitDepth: bitDepth, SamplesPerPixel: d.info.SamplesPerPixel,
		Stride: d.info.Stride,
	}
	d.recon = filter.NewReconstructor(geom, d.info.Blob, interlace == 1)
	d.inf = zlibio.NewInflater(d.recon)
	return nil
}

func (d *Decoder) handleBodyChunk(res *chunk.Result) error {
	// Dispatch on the canonical (case-bits-cleared) type word; the
	// mixed-case registered names normalize to it.
	switch res.Canonical {
	case chunk.TypePLTE:
		d.info.Palette.LoadRGB(res.Payload)
	case chunk.TypetRNS.Canonical():
		d.handleTRNS(res.Payload)
	case chunk.TypebKGD.Canonical():
		d.handleBKGD(res.Payload)
	case chunk.TypeIEND:
		return d.finishIDAT()
	case chunk.TypegAMA.Canonical(), chunk.TypetIME.Canonical(), chunk.TypepHYs.Canonical():
		if Debug {
			log.Printf("pngcodec: ignoring %s chunk (%d bytes)", res.Type, len(res.Payload))
		}
	default:
		if Debug && res.Canonical != chunk.TypeIDAT {
			log.Printf("pngcodec: skipping unknown chunk %s (ancillary=%v)", res.Type, res.Flags.Ancillary)
		}
	}
	return nil
}

func (d *Decoder) handleTRNS(p []byte) {
	d.info.HasTransparency = true
	switch d.info.ColourType {
	case pngcolor.Indexed:
		d.info.Palette.LoadAlpha(p)
	case pngcolor.Grey:
		if len(p) >= 2 {
			d.info.Transparency = pngcolor.Transparency{Set: true, Grey: bitio.BE16(p)}
		}
	case pngcolor.RGB:
		if len(p) >= 6 {
			d.info.Transparency = pngcolor.Transparency{
				Set: true,
				R:   bitio.BE16(p[0:2]),
				G:   bitio.BE16(p[2:4]),
				B:   bitio.BE16(p[4:6]),
			}
		}
	}
}

func (d *Decoder) handleBKGD(p []byte) {
	d.info.HasBackground = true
	switch d.info.ColourType {
	case pngcolor.Indexed:
		if len(p) >= 1 {
			d.info.Background = pngcolor.Background{Set: true, Index: p[0]}
		}
	case pngcolor.Grey, pngcolor.GreyAlpha:
		if len(p) >= 2 {
			d.info.Background = pngcolor.Background{Set: true, Grey: bitio.BE16(p)}
		}
	case pngcolor.RGB, pngcolor.RGBA:
		if len(p) >= 6 {
			d.info.Background = pngcolor.Background{
				Set: true,
				R:   bitio.BE16(p[0:2]),
				G:   bitio.BE16(p[2:4]),
				B:   bitio.BE16(p[4:6]),
			}
		}
	}
}

func (d *Decoder) finishIDAT() error {
	if err := d.inf.Close(); err != nil {
		d.fail(StatusZlibErr, err)
		return err
	}
	if d.recon.Err() != nil {
		d.fail(StatusIDATErr, d.recon.Err())
		return d.recon.Err()
	}
	if !d.recon.Done() {
		err := errors.New("pngcodec: stream ended before every scanline was reconstructed")
		d.fail(StatusIDATErr, err)
		return err
	}
	d.state = decFinished
	d.info.Status = (d.info.Status &^ StatusLoading) | StatusFinished | StatusIsDrawable
	return nil
}

// Close tells the decoder its byte source is exhausted. A stream that
// hasn't reached IEND by then is truncated: the decoder latches
// IDAT_ERR and tears down the inflate worker. Closing a finished
// decoder is a no-op.
func (d *Decoder) Close() error {
	switch d.state {
	case decFinished:
		return nil
	case decError:
		return d.lastErr
	}
	err := errors.New("pngcodec: input exhausted before IEND")
	d.fail(StatusIDATErr, err)
	return err
}

func (d *Decoder) fail(bit Status, err error) {
	d.state = decError
	d.lastErr = err
	d.info.Status = (d.info.Status &^ StatusLoading) | bit | StatusError
	if d.inf != nil {
		d.inf.Abort()
	}
}

// Err returns the sticky decode error, if any.
func (d *Decoder) Err() error { return d.lastErr }
