// Package bitio provides the big-endian byte packing the PNG wire format
// needs for chunk lengths, CRCs and multi-byte samples.
package bitio

// BE16 reads a big-endian uint16 from the first two bytes of b.
func BE16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// BE32 reads a big-endian uint32 from the first four bytes of b.
func BE32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// PutBE16 writes v into the first two bytes of b, big-endian.
func PutBE16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// PutBE32 writes v into the first four bytes of b, big-endian.
func PutBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
