// Package chunk implements the PNG chunk framer: the length-prefixed,
// typed, CRC-terminated wire unit every PNG chunk is built from. It knows
// nothing about IHDR/IDAT/PLTE semantics beyond the bytes themselves;
// interpreting a chunk's payload is the decoder's job.
package chunk

// Type is a chunk's four-letter name, e.g. "IHDR" or "tRNS".
type Type [4]byte

func NewType(s string) Type {
	var t Type
	copy(t[:], s)
	return t
}

func (t Type) String() string { return string(t[:]) }

// the lowercase-letter bit (bit 5, 0x20) of each type byte carries a flag,
// per the PNG spec's chunk naming convention.
const caseFlagBit = 0x20

// Ancillary reports whether the chunk may be safely ignored by a decoder
// that doesn't understand it (first letter lowercase).
func (t Type) Ancillary() bool { return t[0]&caseFlagBit != 0 }

// Private reports whether the chunk type is not part of the public PNG
// registry (second letter lowercase).
func (t Type) Private() bool { return t[1]&caseFlagBit != 0 }

// Reserved reports the "non-conforming" bit (third letter lowercase); no
// registered chunk type sets this, so a true here flags a stream that
// doesn't conform to the current PNG spec.
func (t Type) Reserved() bool { return t[2]&caseFlagBit != 0 }

// SafeToCopy reports whether editors that don't understand this chunk may
// copy it through unmodified (fourth letter lowercase).
func (t Type) SafeToCopy() bool { return t[3]&caseFlagBit != 0 }

// Canonical returns t with the case-flag bits cleared from every letter,
// i.e. the uppercase, comparable form used for type dispatch. Clearing
// via bitwise AND (not logical &&) is the point: the PNG convention packs
// a real flag into each byte, and four independent booleans must be
// extracted from four independent bytes.
func (t Type) Canonical() Type {
	return Type{
		t[0] &^ caseFlagBit,
		t[1] &^ caseFlagBit,
		t[2] &^ caseFlagBit,
		t[3] &^ caseFlagBit,
	}
}

var (
	TypeIHDR = NewType("IHDR")
	TypePLTE = NewType("PLTE")
	TypeIDAT = NewType("IDAT")
	TypeIEND = NewType("IEND")
	TypetRNS = NewType("tRNS")
	TypebKGD = NewType("bKGD")
	TypegAMA = NewType("gAMA")
	TypetIME = NewType("tIME")
	TypepHYs = NewType("pHYs")
)
