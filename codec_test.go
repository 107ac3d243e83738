package pngcodec

import (
	"bytes"
	"testing"

	"github.com/rkujawa/pngcodec/internal/pngcolor"
)

// encodeAll drives an Encoder to completion and returns the full wire
// stream.
func encodeAll(t *testing.T, info *ImageInfo) []byte {
	t.Helper()
	enc := NewEncoder(info)
	var out bytes.Buffer
	buf := make([]byte, 4096)
	for !enc.Finished() {
		n := enc.Read(buf)
		out.Write(buf[:n])
		if n == 0 && !enc.Finished() {
			t.Fatal("encoder stalled without finishing")
		}
	}
	if err := enc.Err(); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	return out.Bytes()
}

func decodeAll(t *testing.T, stream []byte) *Decoder {
	t.Helper()
	dec := NewDecoder()
	pos := 0
	for !dec.Finished() && pos < len(stream) {
		n := dec.Write(stream[pos:])
		pos += n
		if n == 0 {
			break
		}
	}
	return dec
}

func TestRoundTripGrey8Bit(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(2, 2, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	copy(info.Blob, []byte{0x10, 0x20, 0x30, 0x40})

	stream := encodeAll(t, info)
	dec := decodeAll(t, stream)
	if !dec.Info().Status.Has(StatusFinished | StatusIsDrawable) {
		t.Fatalf("decode status = %v, want FINISHED|IS_DRAWABLE", dec.Info().Status)
	}
	if !bytes.Equal(dec.Info().Blob, info.Blob) {
		t.Fatalf("blob = %v, want %v", dec.Info().Blob, info.Blob)
	}
}

func TestRoundTripRGBAllRed(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(2, 2, 8, pngcolor.RGB); err != nil {
		t.Fatalf("populate: %v", err)
	}
	red := []byte{0xFF, 0, 0}
	for i := 0; i < 4; i++ {
		copy(info.Blob[i*3:], red)
	}

	stream := encodeAll(t, info)
	dec := decodeAll(t, stream)
	if !dec.Finished() || dec.Err() != nil {
		t.Fatalf("decode did not finish cleanly: err=%v", dec.Err())
	}
	if !bytes.Equal(dec.Info().Blob, info.Blob) {
		t.Fatalf("blob mismatch: got %v, want %v", dec.Info().Blob, info.Blob)
	}
}

func TestRoundTripIndexed2Bpp(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(4, 1, 2, pngcolor.Indexed); err != nil {
		t.Fatalf("populate: %v", err)
	}
	info.Palette.LoadRGB([]byte{
		0, 0, 0,
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
	})
	info.Blob[0] = 0x1B

	stream := encodeAll(t, info)
	dec := decodeAll(t, stream)
	if dec.Err() != nil {
		t.Fatalf("decode error: %v", dec.Err())
	}
	if dec.Info().Blob[0] != 0x1B {
		t.Fatalf("blob[0] = %#x, want 0x1b", dec.Info().Blob[0])
	}
	if dec.Info().Palette[1] != (pngcolor.Entry{A: 0xFF, R: 255, G: 0, B: 0}) {
		t.Fatalf("palette[1] = %+v", dec.Info().Palette[1])
	}
}

func TestRoundTripInterlacedGrey8x8(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(8, 8, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	info.Interlace = 1
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			info.Blob[row*8+col] = byte(row*8 + col)
		}
	}

	stream := encodeAll(t, info)
	dec := decodeAll(t, stream)
	if dec.Err() != nil {
		t.Fatalf("decode error: %v", dec.Err())
	}
	if !bytes.Equal(dec.Info().Blob, info.Blob) {
		t.Fatalf("interlaced round trip mismatch: got %v, want %v", dec.Info().Blob, info.Blob)
	}
}

func TestRoundTripGreyTransparencyAndBackground(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(2, 1, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	copy(info.Blob, []byte{0x10, 0x20})
	info.HasTransparency = true
	info.Transparency = pngcolor.Transparency{Set: true, Grey: 0x10}
	info.HasBackground = true
	info.Background = pngcolor.Background{Set: true, Grey: 0x77}

	stream := encodeAll(t, info)
	dec := decodeAll(t, stream)
	if dec.Err() != nil {
		t.Fatalf("decode error: %v", dec.Err())
	}
	got := dec.Info()
	if !got.HasTransparency || got.Transparency.Grey != 0x10 {
		t.Fatalf("transparency = %+v, want grey key 0x10", got.Transparency)
	}
	if !got.HasBackground || got.Background.Grey != 0x77 {
		t.Fatalf("background = %+v, want grey 0x77", got.Background)
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	dec := NewDecoder()
	dec.Write([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	if !dec.Info().Status.Has(StatusNoPNG | StatusError) {
		t.Fatalf("status = %v, want NO_PNG|ERROR", dec.Info().Status)
	}
}

func TestDecodeSurfacesCRCMismatch(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(1, 1, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	info.Blob[0] = 0xFF
	stream := encodeAll(t, info)

	// Flip a byte inside the IHDR chunk's CRC so the framer latches
	// CRC_ERR instead of progressing.
	crcOffset := 8 + 4 + 4 + 13 // signature + length + type + payload
	stream[crcOffset] ^= 0xFF

	dec := decodeAll(t, stream)
	if !dec.Info().Status.Has(StatusCRCErr | StatusError) {
		t.Fatalf("status = %v, want CRC_ERR|ERROR", dec.Info().Status)
	}
	if dec.Info().Status.Has(StatusIsDrawable) {
		t.Fatal("IS_DRAWABLE should not be set on a failed decode")
	}
}

func TestTruncatedStreamSurfacesIDATErr(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(2, 2, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	copy(info.Blob, []byte{0x10, 0x20, 0x30, 0x40})
	stream := encodeAll(t, info)

	dec := decodeAll(t, stream[:len(stream)-16]) // cut IEND and part of the IDAT tail
	if dec.Finished() {
		t.Fatal("decoder should still be waiting on a truncated stream")
	}
	if err := dec.Close(); err == nil {
		t.Fatal("Close on a truncated stream should report an error")
	}
	if !dec.Info().Status.Has(StatusIDATErr | StatusError) {
		t.Fatalf("status = %v, want IDAT_ERR|ERROR", dec.Info().Status)
	}
}

func TestConvertToRGBA32MarksDescriptorRGBAEI(t *testing.T) {
	info := NewImageInfo()
	if err := info.PopulateAndAllocate(2, 2, 8, pngcolor.Grey); err != nil {
		t.Fatalf("populate: %v", err)
	}
	copy(info.Blob, []byte{1, 2, 3, 4})
	words := info.ConvertToRGBA32(false)
	if len(words) != 4 {
		t.Fatalf("len(words) = %d, want 4", len(words))
	}
	if info.ColourType != pngcolor.RGBAEI {
		t.Fatal("expected RGBAEI after conversion")
	}
}
