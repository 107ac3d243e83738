package zlibio

import "testing"

type collectSink struct{ got []byte }

func (s *collectSink) Drain(p []byte) error {
	s.got = append(s.got, p...)
	return nil
}

func TestDeflateInflateRoundTrip(t *testing.T) {
	want := []byte("three blind mice, three blind mice, see how they run")

	d := NewDeflater()
	if _, err := d.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	stream := d.Drain()
	if len(stream) == 0 {
		t.Fatal("expected compressed bytes after Finish")
	}

	sink := &collectSink{}
	inf := NewInflater(sink)
	if _, err := inf.Write(stream); err != nil {
		t.Fatalf("inflate write: %v", err)
	}
	if err := inf.Close(); err != nil {
		t.Fatalf("inflate close: %v", err)
	}
	if string(sink.got) != string(want) {
		t.Fatalf("got %q, want %q", sink.got, want)
	}
}

func TestFlushMakesBytesAvailableBeforeFinish(t *testing.T) {
	d := NewDeflater()
	if _, err := d.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(d.Drain()) == 0 {
		t.Fatal("expected bytes available after Flush, before Finish")
	}
}

func TestInflaterSurfacesCorruptStream(t *testing.T) {
	sink := &collectSink{}
	inf := NewInflater(sink)
	if _, err := inf.Write([]byte{0x00, 0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := inf.Close(); err == nil {
		t.Fatal("expected error on bogus zlib header")
	}
}
