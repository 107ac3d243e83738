package pngcolor

import "testing"

func TestDefaultPaletteIsOpaqueGreyRamp(t *testing.T) {
	p := DefaultPalette()
	if p[0] != (Entry{A: 0xFF, R: 0, G: 0, B: 0}) {
		t.Fatalf("p[0] = %+v", p[0])
	}
	if p[255] != (Entry{A: 0xFF, R: 255, G: 255, B: 255}) {
		t.Fatalf("p[255] = %+v", p[255])
	}
}

func TestLoadRGBPrimaries(t *testing.T) {
	p := DefaultPalette()
	p.LoadRGB([]byte{
		0, 0, 0,
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
	})
	want := []Entry{
		{A: 0xFF, R: 0, G: 0, B: 0},
		{A: 0xFF, R: 255, G: 0, B: 0},
		{A: 0xFF, R: 0, G: 255, B: 0},
		{A: 0xFF, R: 0, G: 0, B: 255},
	}
	for i, e := range want {
		if p[i] != e {
			t.Fatalf("p[%d] = %+v, want %+v", i, p[i], e)
		}
	}
}

func TestLoadAlphaLeavesRemainderOpaque(t *testing.T) {
	p := DefaultPalette()
	p.LoadAlpha([]byte{0x00, 0x80})
	if p[0].A != 0x00 || p[1].A != 0x80 {
		t.Fatalf("p[0].A=%#x p[1].A=%#x", p[0].A, p[1].A)
	}
	if p[2].A != 0xFF {
		t.Fatalf("p[2].A = %#x, want 0xff (untouched default)", p[2].A)
	}
}

func TestLastWriterWinsOnSecondPLTE(t *testing.T) {
	p := DefaultPalette()
	p.LoadRGB([]byte{10, 20, 30})
	p.LoadRGB([]byte{40, 50, 60})
	if p[0] != (Entry{A: 0xFF, R: 40, G: 50, B: 60}) {
		t.Fatalf("p[0] = %+v, want last write to win", p[0])
	}
}

func TestSamplesPerPixelTable(t *testing.T) {
	cases := []struct {
		t    Type
		want int
	}{
		{Grey, 1}, {RGB, 3}, {Indexed, 1}, {GreyAlpha, 2}, {RGBA, 4},
	}
	for _, c := range cases {
		got, err := SamplesPerPixel(c.t)
		if err != nil || got != c.want {
			t.Fatalf("SamplesPerPixel(%d) = (%d, %v), want %d", c.t, got, err, c.want)
		}
	}
	if _, err := SamplesPerPixel(Type(1)); err != ErrBadColourType {
		t.Fatalf("SamplesPerPixel(1) err = %v, want ErrBadColourType", err)
	}
}

func TestValidBitDepth(t *testing.T) {
	if !ValidBitDepth(Indexed, 4) {
		t.Fatal("indexed/4 should be valid")
	}
	if ValidBitDepth(Indexed, 16) {
		t.Fatal("indexed/16 should be invalid")
	}
	if ValidBitDepth(RGB, 2) {
		t.Fatal("RGB/2 should be invalid")
	}
	if !ValidBitDepth(RGBA, 16) {
		t.Fatal("RGBA/16 should be valid")
	}
}
