// Package pngcolor holds the colour-type metadata, palette and
// transparency/background bookkeeping shared by the decoder, encoder and
// the RGBA converters: nothing here touches the wire or the pixel blob
// directly.
package pngcolor

import "github.com/pkg/errors"

// Type is a PNG colour type, using the wire values directly so dispatch
// tables can be indexed by it without translation.
type Type int

const (
	Grey      Type = 0
	RGB       Type = 2
	Indexed   Type = 3
	GreyAlpha Type = 4
	RGBA      Type = 6

	// RGBAEI is not a wire value; the converters stamp it onto a
	// descriptor once the pixel blob has been rewritten into packed
	// host RGBA form.
	RGBAEI Type = -1
)

// ErrBadColourType is surfaced for any colour-type byte other than
// 0, 2, 3, 4 or 6.
var ErrBadColourType = errors.New("pngcolor: undefined colour type")

// SamplesPerPixel returns the channel count for t, per the wire table.
func SamplesPerPixel(t Type) (int, error) {
	switch t {
	case Grey, Indexed:
		return 1, nil
	case RGB:
		return 3, nil
	case GreyAlpha:
		return 2, nil
	case RGBA:
		return 4, nil
	default:
		return 0, ErrBadColourType
	}
}

// ValidBitDepth reports whether depth is legal for t. Grey allows the
// full 1/2/4/8/16 range; indexed allows 1/2/4/8; grey+alpha, RGB and
// RGBA allow only 8 and 16, since the sub-byte depths are only legal
// without colour or alpha channels.
func ValidBitDepth(t Type, depth int) bool {
	switch depth {
	case 1, 2, 4:
		return t == Grey || t == Indexed
	case 8:
		return true
	case 16:
		return t != Indexed
	default:
		return false
	}
}

// Entry is one 32-bit palette slot, alpha-red-green-blue.
type Entry struct {
	A, R, G, B byte
}

// Palette is always exactly 256 entries; only indices below an image's
// effective palette length (the PLTE chunk's payload length / 3) are
// semantically meaningful, but every slot is addressable.
type Palette [256]Entry

// DefaultPalette returns the grey ramp a freshly created context starts
// with: (0xFF, i, i, i) at every index, so an image that never receives
// a PLTE chunk still decodes as sensible opaque grey.
func DefaultPalette() Palette {
	var p Palette
	for i := range p {
		g := byte(i)
		p[i] = Entry{A: 0xFF, R: g, G: g, B: g}
	}
	return p
}

// LoadRGB fills consecutive palette entries from a PLTE payload (N*3
// bytes, R,G,B triples), leaving alpha at its existing value. A second
// PLTE in the same stream overwrites earlier entries outright — last
// writer wins, no duplicate-chunk error.
func (p *Palette) LoadRGB(payload []byte) {
	n := len(payload) / 3
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i].R = payload[i*3]
		p[i].G = payload[i*3+1]
		p[i].B = payload[i*3+2]
	}
}

// LoadAlpha fills consecutive palette alphas from an indexed tRNS
// payload. Entries past len(payload) keep their default (0xFF) alpha,
// per the PNG spec's tRNS-is-a-prefix rule.
func (p *Palette) LoadAlpha(payload []byte) {
	n := len(payload)
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i].A = payload[i]
	}
}

// Transparency is the grey or RGB "this exact sample value is
// transparent" key carried by a non-indexed tRNS chunk.
type Transparency struct {
	Set     bool
	Grey    uint16
	R, G, B uint16
}

// Background is the bKGD sample(s). Its shape on the wire depends on
// colour type — a palette index, a single grey sample, or an RGB
// triple — but only RGB and RGBA (the colour types with the "colour"
// bit set) get the R/G/B triple; grey and grey+alpha use Grey, indexed
// uses Index.
type Background struct {
	Set     bool
	Grey    uint16
	Index   byte
	R, G, B uint16
}
