package pngcodec

import (
	"github.com/rkujawa/pngcodec/internal/pngcolor"
	"github.com/rkujawa/pngcodec/internal/sample"
)

// RGBA32 holds one packed 32-bit pixel, byte order A,R,G,B within the
// host word (matching the original extension's in-memory layout; on
// the wire, were it ever serialized, bytes go out R,G,B,A regardless of
// host endianness, but RGBA_EI is a decode-only, in-memory extension).
type RGBA32 uint32

// RGBA64 holds one packed 64-bit pixel at 16 bits per channel, same
// A,R,G,B word layout as RGBA32 but with each channel widened.
type RGBA64 uint64

// GammaTables holds three 256-entry channel lookup tables consulted by
// ConvertToRGBA64 for 8-bit sources (the original's r_trans/g_trans/b_trans).
// A caller with no gamma correction to apply can pass IdentityGammaTables.
type GammaTables struct {
	R, G, B [256]uint16
}

// IdentityGammaTables returns tables that widen an 8-bit channel value
// to 16 bits by byte-replication (v | v<<8), i.e. no correction.
func IdentityGammaTables() GammaTables {
	var g GammaTables
	for i := 0; i < 256; i++ {
		v := uint16(i)<<8 | uint16(i)
		g.R[i], g.G[i], g.B[i] = v, v, v
	}
	return g
}

// ConvertToRGBA32 converts info's pixel blob to a flat row-major slice
// of 32-bit RGBA words, per colour type. It is a no-op, returning the
// existing blob reinterpreted, once info.ColourType is already
// pngcolor.RGBAEI. 16-bit source samples are truncated to 8 bits by
// taking the high byte — a known precision loss, not fixed here.
func (info *ImageInfo) ConvertToRGBA32(inverseAlpha bool) []RGBA32 {
	if info.ColourType == pngcolor.RGBAEI {
		return blobToRGBA32(info.Blob)
	}

	out := make([]RGBA32, info.Width*info.Height)
	cur := sample.NewCursor(info.Blob, info.BitDepth)
	i := 0
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			var a, r, g, b uint8
			switch info.ColourType {
			case pngcolor.Grey:
				v := cur.Next()
				grey := sample.Expand8(v, info.BitDepth)
				a = 0xFF
				if info.HasTransparency && info.Transparency.Set && v == info.Transparency.Grey {
					a = 0
				}
				r, g, b = grey, grey, grey
			case pngcolor.GreyAlpha:
				v := cur.Next()
				av := cur.Next()
				grey := sample.Expand8(v, info.BitDepth)
				if info.BitDepth == 16 {
					a = uint8(av >> 8)
				} else {
					a = uint8(av)
				}
				r, g, b = grey, grey, grey
			case pngcolor.RGB, pngcolor.RGBA:
				rv, gv, bv := cur.Next(), cur.Next(), cur.Next()
				av := uint16(0xFF)
				if info.BitDepth == 16 {
					av = 0xFFFF
				}
				if info.ColourType == pngcolor.RGBA {
					av = cur.Next()
				}
				if info.HasTransparency && info.Transparency.Set &&
					rv == info.Transparency.R && gv == info.Transparency.G && bv == info.Transparency.B {
					av = 0
				}
				if info.BitDepth == 16 {
					r, g, b, a = uint8(rv>>8), uint8(gv>>8), uint8(bv>>8), uint8(av>>8)
				} else {
					r, g, b, a = uint8(rv), uint8(gv), uint8(bv), uint8(av)
				}
			case pngcolor.Indexed:
				idx := cur.Next()
				entry := info.Palette[idx]
				a, r, g, b = entry.A, entry.R, entry.G, entry.B
			}
			if inverseAlpha {
				a = 255 - a
			}
			out[i] = RGBA32(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
			i++
		}
		cur.AlignByte()
	}

	info.Blob = rgba32ToBlob(out)
	info.BitDepth = 32
	info.SamplesPerPixel = 4
	info.Stride = 4 * info.Width
	info.ColourType = pngcolor.RGBAEI
	return out
}

// ConvertToRGBA64 is ConvertToRGBA32's 64-bit counterpart: sources of 8
// bits and below are widened through the gamma tables, alpha is widened
// by *0x0101, and 16-bit sources pass through at full precision.
func (info *ImageInfo) ConvertToRGBA64(gamma GammaTables, inverseAlpha bool) []RGBA64 {
	if info.ColourType == pngcolor.RGBAEI {
		return blobToRGBA64(info.Blob)
	}

	out := make([]RGBA64, info.Width*info.Height)
	cur := sample.NewCursor(info.Blob, info.BitDepth)
	i := 0
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			var a, r, g, b uint64
			switch info.ColourType {
			case pngcolor.Grey:
				v := cur.Next()
				a = 0xFFFF
				if info.HasTransparency && info.Transparency.Set && v == info.Transparency.Grey {
					a = 0
				}
				if info.BitDepth == 16 {
					r, g, b = uint64(v), uint64(v), uint64(v)
				} else {
					grey8 := sample.Expand8(v, info.BitDepth)
					r = uint64(gamma.R[grey8])
					g = uint64(gamma.G[grey8])
					b = uint64(gamma.B[grey8])
				}
			case pngcolor.GreyAlpha:
				v := cur.Next()
				av := cur.Next()
				if info.BitDepth == 16 {
					r, g, b = uint64(v), uint64(v), uint64(v)
					a = uint64(av)
				} else {
					grey8 := sample.Expand8(v, info.BitDepth)
					r = uint64(gamma.R[grey8])
					g = uint64(gamma.G[grey8])
					b = uint64(gamma.B[grey8])
					a = 0x101 * uint64(av)
				}
			case pngcolor.RGB, pngcolor.RGBA:
				rv, gv, bv := cur.Next(), cur.Next(), cur.Next()
				av := uint16(0xFF)
				if info.BitDepth == 16 {
					av = 0xFFFF
				}
				if info.ColourType == pngcolor.RGBA {
					av = cur.Next()
				}
				if info.HasTransparency && info.Transparency.Set &&
					rv == info.Transparency.R && gv == info.Transparency.G && bv == info.Transparency.B {
					av = 0
				}
				if info.BitDepth == 16 {
					r, g, b, a = uint64(rv), uint64(gv), uint64(bv), uint64(av)
				} else {
					r = uint64(gamma.R[uint8(rv)])
					g = uint64(gamma.G[uint8(gv)])
					b = uint64(gamma.B[uint8(bv)])
					a = 0x101 * uint64(uint8(av))
				}
			case pngcolor.Indexed:
				idx := cur.Next()
				entry := info.Palette[idx]
				r = uint64(gamma.R[entry.R])
				g = uint64(gamma.G[entry.G])
				b = uint64(gamma.B[entry.B])
				a = 0x101 * uint64(entry.A)
			}
			if inverseAlpha {
				a = 0xFFFF - a
			}
			out[i] = RGBA64(a<<48 | r<<32 | g<<16 | b)
			i++
		}
		cur.AlignByte()
	}

	info.Blob = rgba64ToBlob(out)
	info.BitDepth = 64
	info.SamplesPerPixel = 4
	info.Stride = 8 * info.Width
	info.ColourType = pngcolor.RGBAEI
	return out
}

func blobToRGBA32(blob []byte) []RGBA32 {
	out := make([]RGBA32, len(blob)/4)
	for i := range out {
		b := blob[i*4 : i*4+4]
		out[i] = RGBA32(uint32(b[3])<<24 | uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]))
	}
	return out
}

func rgba32ToBlob(words []RGBA32) []byte {
	blob := make([]byte, len(words)*4)
	for i, w := range words {
		a := byte(w >> 24)
		r := byte(w >> 16)
		g := byte(w >> 8)
		b := byte(w)
		blob[i*4], blob[i*4+1], blob[i*4+2], blob[i*4+3] = r, g, b, a
	}
	return blob
}

func blobToRGBA64(blob []byte) []RGBA64 {
	out := make([]RGBA64, len(blob)/8)
	for i := range out {
		b := blob[i*8 : i*8+8]
		r := uint64(b[0])<<8 | uint64(b[1])
		g := uint64(b[2])<<8 | uint64(b[3])
		bch := uint64(b[4])<<8 | uint64(b[5])
		a := uint64(b[6])<<8 | uint64(b[7])
		out[i] = RGBA64(a<<48 | r<<32 | g<<16 | bch)
	}
	return out
}

func rgba64ToBlob(words []RGBA64) []byte {
	blob := make([]byte, len(words)*8)
	for i, w := range words {
		a := uint16(w >> 48)
		r := uint16(w >> 32)
		g := uint16(w >> 16)
		b := uint16(w)
		blob[i*8], blob[i*8+1] = byte(r>>8), byte(r)
		blob[i*8+2], blob[i*8+3] = byte(g>>8), byte(g)
		blob[i*8+4], blob[i*8+5] = byte(b>>8), byte(b)
		blob[i*8+6], blob[i*8+7] = byte(a>>8), byte(a)
	}
	return blob
}
