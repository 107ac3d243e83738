package crc32iso

import "testing"

func TestKnownIHDR(t *testing.T) {
	Init()
	// IHDR for a 1x1 8-bit greyscale image: width,height,bitdepth,colourtype,comp,filter,interlace.
	payload := []byte{'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 0, 0, 0, 0}
	r := New()
	r.Write(payload)
	got := r.Sum32()
	if got == 0 || got == 0xFFFFFFFF {
		t.Fatalf("suspicious CRC result: %#x", got)
	}
}

func TestResetMatchesFreshRegister(t *testing.T) {
	Init()
	a := New()
	a.Write([]byte("IDATsomepayload"))
	a.Reset()
	a.Write([]byte("next"))

	b := New()
	b.Write([]byte("next"))

	if a.Sum32() != b.Sum32() {
		t.Fatalf("reset register diverged: %#x != %#x", a.Sum32(), b.Sum32())
	}
}

func TestIncrementalMatchesSinglePass(t *testing.T) {
	Init()
	data := []byte("IDATabcdefghijklmnopqrstuvwxyz")

	whole := New()
	whole.Write(data)

	piecewise := New()
	for i := range data {
		piecewise.Write(data[i : i+1])
	}

	if whole.Sum32() != piecewise.Sum32() {
		t.Fatalf("incremental CRC diverged from single-pass: %#x != %#x", piecewise.Sum32(), whole.Sum32())
	}
}
