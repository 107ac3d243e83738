package filter

import "testing"

// TestThreeByThreeGreyPaeth reconstructs a 3x3 8-bit grey image: seed
// line 10 20 30 (filter None), then filter Up, then filter Paeth, each
// reproducing the seed line exactly.
func TestThreeByThreeGreyPaeth(t *testing.T) {
	geom := Geometry{Width: 3, Height: 3, BitDepth: 8, SamplesPerPixel: 1, Stride: 3}
	blob := make([]byte, geom.Stride*geom.Height)
	r := NewReconstructor(geom, blob, false)

	raw := []byte{
		0, 0x10, 0x20, 0x30, // filter None: seed line
		2, 0, 0, 0, // filter Up: raw zero reproduces the line above unchanged
		4, 0, 0, 0, // filter Paeth: raw zero, predictor picks "above" every column here
	}
	if err := r.Drain(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Done() {
		t.Fatal("reconstructor did not finish")
	}
	want := []byte{0x10, 0x20, 0x30, 0x10, 0x20, 0x30, 0x10, 0x20, 0x30}
	for i := range want {
		if blob[i] != want[i] {
			t.Fatalf("blob[%d] = %#x, want %#x (full: %v)", i, blob[i], want[i], blob)
		}
	}
}

func TestBadFilterTypeSurfacesError(t *testing.T) {
	geom := Geometry{Width: 1, Height: 1, BitDepth: 8, SamplesPerPixel: 1, Stride: 1}
	blob := make([]byte, 1)
	r := NewReconstructor(geom, blob, false)
	if err := r.Drain([]byte{5, 0xFF}); err != ErrBadFilterType {
		t.Fatalf("err = %v, want ErrBadFilterType", err)
	}
}

// TestReconstruct2BppPackedLine decodes a 4x1 indexed 2bpp scanline:
// byte 0x1B holds indices 0,1,2,3 MSB-first.
func TestReconstruct2BppPackedLine(t *testing.T) {
	geom := Geometry{Width: 4, Height: 1, BitDepth: 2, SamplesPerPixel: 1, Stride: 1}
	blob := make([]byte, 1)
	r := NewReconstructor(geom, blob, false)
	if err := r.Drain([]byte{0, 0x1B}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blob[0] != 0x1B {
		t.Fatalf("blob[0] = %#x, want 0x1b", blob[0])
	}
}

func TestSplitAcrossDrainCalls(t *testing.T) {
	geom := Geometry{Width: 2, Height: 2, BitDepth: 8, SamplesPerPixel: 1, Stride: 2}
	blob := make([]byte, 4)
	r := NewReconstructor(geom, blob, false)

	full := []byte{0, 1, 2, 0, 3, 4}
	for i := 0; i < len(full); i++ {
		if err := r.Drain(full[i : i+1]); err != nil {
			t.Fatalf("unexpected error at byte %d: %v", i, err)
		}
	}
	if !r.Done() {
		t.Fatal("reconstructor did not finish across byte-at-a-time drains")
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if blob[i] != want[i] {
			t.Fatalf("blob[%d] = %d, want %d", i, blob[i], want[i])
		}
	}
}

// TestInterlacedSubByteRoundTrip drives a 2-bit image whose pass
// scanlines end on partial bytes through the emitter and back through
// the reconstructor; the padding bits of those partial bytes must not
// be distributed past the image width.
func TestInterlacedSubByteRoundTrip(t *testing.T) {
	geom := Geometry{Width: 10, Height: 3, BitDepth: 2, SamplesPerPixel: 1, Stride: 3}
	src := make([]byte, geom.Stride*geom.Height)
	for row := 0; row < geom.Height; row++ {
		for col := 0; col < geom.Width; col++ {
			writeSubBytePixel(src, geom.Stride, row, col, 2, byte((row+col)%4))
		}
	}

	e := NewEmitter(geom, src, true)
	dst := make([]byte, len(src))
	r := NewReconstructor(geom, dst, true)
	for {
		line, done := e.Step()
		if done {
			break
		}
		if err := r.Drain(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !r.Done() {
		t.Fatal("reconstructor did not finish")
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %#x, want %#x (dst %v, src %v)", i, dst[i], src[i], dst, src)
		}
	}
}

func TestEmitterThenReconstructRoundTrip(t *testing.T) {
	geom := Geometry{Width: 2, Height: 2, BitDepth: 8, SamplesPerPixel: 3, Stride: 6}
	src := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 0,
	}
	e := NewEmitter(geom, src, false)

	dst := make([]byte, len(src))
	r := NewReconstructor(geom, dst, false)
	for {
		line, done := e.Step()
		if done {
			break
		}
		if err := r.Drain(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !r.Done() {
		t.Fatal("reconstructor did not finish")
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}
