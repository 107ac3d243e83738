// Package sample implements the raw sample packer/unpacker: given a bit
// depth and a reconstructed pixel blob, it walks out individual channel
// values left to right, top to bottom, same order the wire uses. The
// filter stage (internal/filter) has its own bit-addressing helpers for
// the reconstruct/emit hot path; this package serves the converters,
// which read whole pixels back out of an already-reconstructed blob.
package sample

// Cursor reads successive samples at a fixed bit depth out of blob. It
// never looks at width or stride: because stride is always rounded up
// to a whole number of bytes, a sub-byte row can end part-way through
// its last byte, and the caller skips those unused low bits with
// AlignByte before starting the next row. Callers drive the row/column
// bookkeeping; the cursor only tracks its position inside the blob.
type Cursor struct {
	blob     []byte
	bitDepth int
	byteOff  int
	bitOff   int // 0 when aligned to the start of blob[byteOff]
	cur      byte
}

// NewCursor returns a Cursor over blob at the given bit depth (1, 2, 4,
// 8 or 16).
func NewCursor(blob []byte, bitDepth int) *Cursor {
	return &Cursor{blob: blob, bitDepth: bitDepth}
}

// Next returns the next sample value. For bitDepth < 8 this reads the
// next bitDepth-wide group from the current byte, most-significant
// bits first, advancing to the next byte once the current one is
// exhausted; for bitDepth 8 and 16 it reads whole bytes.
func (c *Cursor) Next() uint16 {
	switch {
	case c.bitDepth == 16:
		v := uint16(c.blob[c.byteOff])<<8 | uint16(c.blob[c.byteOff+1])
		c.byteOff += 2
		return v
	case c.bitDepth == 8:
		v := uint16(c.blob[c.byteOff])
		c.byteOff++
		return v
	default:
		if c.bitOff == 0 {
			c.cur = c.blob[c.byteOff]
		}
		mask := byte(1<<uint(c.bitDepth) - 1)
		shift := 8 - c.bitDepth - c.bitOff
		v := uint16((c.cur >> uint(shift)) & mask)
		c.bitOff += c.bitDepth
		if c.bitOff >= 8 {
			c.bitOff = 0
			c.byteOff++
		}
		return v
	}
}

// AlignByte discards any partially-consumed byte (the low bits a
// sub-byte row never uses once its pixel count stops short of filling
// the byte exactly) and moves to the next whole byte. The converters
// call this between rows; mid-row it is never needed because bitDepth
// always divides 8 evenly.
func (c *Cursor) AlignByte() {
	if c.bitOff != 0 {
		c.bitOff = 0
		c.byteOff++
	}
}

// Expand8 maps a sample of any depth onto the full 0-255 range: sub-byte
// depths scale up per the PNG sample-expansion formula `value * 255 /
// maxval`, 8-bit passes through, and 16-bit truncates to the high byte
// (the documented precision loss of the 32-bit converter).
func Expand8(v uint16, bitDepth int) uint8 {
	switch {
	case bitDepth == 16:
		return uint8(v >> 8)
	case bitDepth == 8:
		return uint8(v)
	}
	maxVal := uint16(1<<uint(bitDepth) - 1)
	return uint8((v * 255) / maxVal)
}
