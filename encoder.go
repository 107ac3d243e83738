package pngcodec

import (
	"github.com/rkujawa/pngcodec/internal/bitio"
	"github.com/rkujawa/pngcodec/internal/chunk"
	"github.com/rkujawa/pngcodec/internal/filter"
	"github.com/rkujawa/pngcodec/internal/pngcolor"
	"github.com/rkujawa/pngcodec/internal/zlibio"
)

type encodeState int

const (
	encOff encodeState = iota
	encStart
	encHeader
	encIdentified
	encSendMiscBlocks
	encStartSendingIDATs
	encSendIDATs
	encFinished
	encError
)

// idatChunkSize bounds how much wire output (one IDAT chunk per flushed
// scanline) accumulates before the encoder pauses for the caller to
// drain it via Read, keeping a single advance() call's work bounded.
const idatChunkSize = 16 * 1024

// Encoder drives the top-level encode state machine
// (OFF -> START -> HEADER -> IDENTIFIED -> SEND_MISC_BLOCKS ->
// START_SENDING_IDATS -> SEND_IDATS -> FINISHED/ERROR). It is a pump in
// the opposite direction from Decoder: callers call Read repeatedly to
// pull wire bytes out, and the encoder only produces as much as the
// caller's buffer and the internal watermark allow.
type Encoder struct {
	info  *ImageInfo
	state encodeState

	writer *chunk.Writer
	defl   *zlibio.Deflater
	emit   *filter.Emitter

	out []byte
	err error
}

// NewEncoder returns an Encoder that will serialize info, which must
// already carry dimensions, colour type and a populated pixel blob
// (see ImageInfo.PopulateAndAllocate).
func NewEncoder(info *ImageInfo) *Encoder {
	info.Status |= StatusSaving
	return &Encoder{
		info:   info,
		state:  encStart,
		writer: chunk.NewWriter(),
	}
}

// Finished reports whether the encoder has produced every byte of the
// stream (or latched an error).
func (e *Encoder) Finished() bool { return e.state == encFinished || e.state == encError }

// Err returns the sticky encode error, if any.
func (e *Encoder) Err() error { return e.err }

// Read pulls up to len(p) bytes of encoded PNG wire data into p,
// producing more internally as needed, and returns how many bytes it
// wrote.
func (e *Encoder) Read(p []byte) int {
	for len(e.out) < len(p) && e.state != encFinished && e.state != encError {
		e.advance()
	}
	n := copy(p, e.out)
	e.out = append(e.out[:0], e.out[n:]...)
	return n
}

func (e *Encoder) advance() {
	switch e.state {
	case encStart:
		e.out = append(e.out, pngSignature[:]...)
		e.state = encHeader
	case encHeader:
		e.emitIHDR()
		e.state = encIdentified
	case encIdentified:
		e.defl = zlibio.NewDeflater()
		geom := filter.Geometry{
			Width: e.info.Width, Height: e.info.Height,
			BitDepth: e.info.BitDepth, SamplesPerPixel: e.info.SamplesPerPixel,
			Stride: e.info.Stride,
		}
		e.emit = filter.NewEmitter(geom, e.info.Blob, e.info.Interlace == 1)
		e.state = encSendMiscBlocks
	case encSendMiscBlocks:
		e.emitMiscBlocks()
		e.state = encStartSendingIDATs
	case encStartSendingIDATs:
		e.state = encSendIDATs
	case encSendIDATs:
		e.pumpIDATs()
	default:
	}
}

func (e *Encoder) fail(bit Status, err error) {
	e.state = encError
	e.err = err
	e.info.Status = (e.info.Status &^ StatusSaving) | bit | StatusError
}

func (e *Encoder) appendChunk(typ chunk.Type, payload []byte) {
	e.writer.Begin(typ, chunk.Flags{})
	if len(payload) > 0 {
		_, _ = e.writer.Write(payload)
	}
	e.writer.End()
	pending := e.writer.Pending()
	e.out = append(e.out, pending...)
	e.writer.Consume(len(pending))
}

func (e *Encoder) emitIHDR() {
	var payload [13]byte
	bitio.PutBE32(payload[0:4], uint32(e.info.Width))
	bitio.PutBE32(payload[4:8], uint32(e.info.Height))
	payload[8] = byte(e.info.BitDepth)
	payload[9] = byte(e.info.ColourType)
	payload[10] = byte(e.info.Compression)
	payload[11] = byte(e.info.Filter)
	payload[12] = byte(e.info.Interlace)
	e.appendChunk(chunk.TypeIHDR, payload[:])
}

// emitMiscBlocks writes the ancillary chunks between IHDR and the first
// IDAT, in wire order: PLTE, then bKGD, then tRNS.
func (e *Encoder) emitMiscBlocks() {
	paletteLen := 1 << uint(e.info.BitDepth)
	if paletteLen > 256 {
		paletteLen = 256
	}

	if e.info.ColourType == pngcolor.Indexed {
		payload := make([]byte, paletteLen*3)
		for i := 0; i < paletteLen; i++ {
			entry := e.info.Palette[i]
			payload[i*3] = entry.R
			payload[i*3+1] = entry.G
			payload[i*3+2] = entry.B
		}
		e.appendChunk(chunk.TypePLTE, payload)
	}

	if e.info.HasBackground && e.info.Background.Set {
		switch e.info.ColourType {
		case pngcolor.Indexed:
			e.appendChunk(chunk.TypebKGD, []byte{e.info.Background.Index})
		case pngcolor.Grey, pngcolor.GreyAlpha:
			var p [2]byte
			bitio.PutBE16(p[:], e.info.Background.Grey)
			e.appendChunk(chunk.TypebKGD, p[:])
		case pngcolor.RGB, pngcolor.RGBA:
			var p [6]byte
			bitio.PutBE16(p[0:2], e.info.Background.R)
			bitio.PutBE16(p[2:4], e.info.Background.G)
			bitio.PutBE16(p[4:6], e.info.Background.B)
			e.appendChunk(chunk.TypebKGD, p[:])
		}
	}

	if e.info.ColourType == pngcolor.Indexed {
		anyAlpha := false
		for i := 0; i < paletteLen; i++ {
			if e.info.Palette[i].A != 0xFF {
				anyAlpha = true
				break
			}
		}
		if anyAlpha {
			alphas := make([]byte, paletteLen)
			for i := 0; i < paletteLen; i++ {
				alphas[i] = e.info.Palette[i].A
			}
			e.appendChunk(chunk.TypetRNS, alphas)
		}
	} else if e.info.HasTransparency && e.info.Transparency.Set {
		// tRNS is only legal for the colour types without an alpha
		// channel; grey+alpha and RGBA carry transparency per pixel.
		switch e.info.ColourType {
		case pngcolor.Grey:
			var p [2]byte
			bitio.PutBE16(p[:], e.info.Transparency.Grey)
			e.appendChunk(chunk.TypetRNS, p[:])
		case pngcolor.RGB:
			var p [6]byte
			bitio.PutBE16(p[0:2], e.info.Transparency.R)
			bitio.PutBE16(p[2:4], e.info.Transparency.G)
			bitio.PutBE16(p[4:6], e.info.Transparency.B)
			e.appendChunk(chunk.TypetRNS, p[:])
		}
	}
}

func (e *Encoder) pumpIDATs() {
	for {
		line, done := e.emit.Step()
		if done {
			if err := e.defl.Finish(); err != nil {
				e.fail(StatusZlibErr, err)
				return
			}
			if tail := e.defl.Drain(); len(tail) > 0 {
				e.appendChunk(chunk.TypeIDAT, tail)
			}
			e.appendChunk(chunk.TypeIEND, nil)
			e.state = encFinished
			e.info.Status = (e.info.Status &^ StatusSaving) | StatusFinished
			return
		}
		if _, err := e.defl.Write(line); err != nil {
			e.fail(StatusZlibErr, err)
			return
		}
		if err := e.defl.Flush(); err != nil {
			e.fail(StatusZlibErr, err)
			return
		}
		if ready := e.defl.Drain(); len(ready) > 0 {
			e.appendChunk(chunk.TypeIDAT, ready)
			if len(e.out) >= idatChunkSize {
				return
			}
		}
	}
}
