// Package pngcodec is a streaming, pump-style PNG codec: callers feed
// arbitrary-sized byte chunks to a Decoder or pull them from an Encoder,
// one step at a time, and the codec never blocks on more input than it
// was handed. See Decoder and Encoder for the two halves of the public
// surface.
package pngcodec

import (
	"github.com/pkg/errors"

	"github.com/rkujawa/pngcodec/internal/pngcolor"
)

// ErrWouldDestroy is returned by Populate when the descriptor already
// holds image data.
var ErrWouldDestroy = errors.New("pngcodec: would destroy existing image data")

// ImageInfo is the caller-visible image descriptor: dimensions, colour
// metadata, the pixel blob, and the status word. NewImageInfo returns a
// freshly created, unpopulated context (Status == StatusClear, palette
// pre-filled as an opaque grey ramp); the zero value has Status 0 and an
// all-zero palette.
type ImageInfo struct {
	Width, Height int
	BitDepth      int // 1, 2, 4, 8 or 16
	ColourType    pngcolor.Type
	Compression   int // always 0
	Filter        int // always 0
	Interlace     int // 0 or 1

	SamplesPerPixel int
	Stride          int
	Blob            []byte

	Palette      pngcolor.Palette
	Transparency pngcolor.Transparency
	Background   pngcolor.Background

	HasTransparency bool
	HasBackground   bool

	Status Status
}

// NewImageInfo allocates a descriptor with the default grey-ramp
// palette pre-filled, matching png_create_png_context: every caller
// gets a sane palette even if the stream never sends a PLTE chunk.
func NewImageInfo() *ImageInfo {
	return &ImageInfo{
		Palette: pngcolor.DefaultPalette(),
		Status:  StatusClear,
	}
}

// Populate sets dimensions and colour type ahead of an encode, failing
// with ErrWouldDestroy if the descriptor already carries a pixel blob —
// the original never silently discards an in-progress image.
func (info *ImageInfo) Populate(width, height, bitDepth int, ct pngcolor.Type) error {
	if info.Blob != nil {
		info.Status |= StatusWouldDestroy | StatusError
		return ErrWouldDestroy
	}
	spp, err := pngcolor.SamplesPerPixel(ct)
	if err != nil {
		info.Status |= StatusOutOfSpecs | StatusError
		return err
	}
	if !pngcolor.ValidBitDepth(ct, bitDepth) {
		info.Status |= StatusOutOfSpecs | StatusError
		return errors.New("pngcodec: bit depth not legal for colour type")
	}
	info.Width = width
	info.Height = height
	info.BitDepth = bitDepth
	info.ColourType = ct
	info.SamplesPerPixel = spp
	info.Stride = (width*bitDepth*spp + 7) / 8
	return nil
}

// PopulateAndAllocate is Populate followed by allocating a zeroed pixel
// blob of Stride*Height bytes, for callers building an image from
// scratch rather than decoding one.
func (info *ImageInfo) PopulateAndAllocate(width, height, bitDepth int, ct pngcolor.Type) error {
	if err := info.Populate(width, height, bitDepth, ct); err != nil {
		return err
	}
	info.Blob = make([]byte, info.Stride*info.Height)
	return nil
}

// Dispose releases the pixel blob and marks the descriptor disposed.
// It is idempotent: disposing twice is a no-op, not an error.
func (info *ImageInfo) Dispose() {
	if info.Status.Has(StatusDisposed) {
		return
	}
	info.Blob = nil
	info.Status |= StatusDisposed
}
