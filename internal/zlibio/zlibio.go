// Package zlibio adapts a real DEFLATE/INFLATE engine
// (github.com/klauspost/compress/zlib) to the codec's push/pull pump
// contract.
//
// The two directions aren't symmetric. compress/zlib's Writer is a
// push contract already: Write accepts raw bytes and, when asked via
// Flush, synchronously emits whatever compressed output it has ready
// into the underlying io.Writer — a plain bytes.Buffer here, which
// never blocks. That buffer is exactly the encoder's zbuf: Deflater
// just wraps the Writer plus a Drain to harvest it, no goroutine
// needed.
//
// compress/zlib's Reader is a pull contract: it calls Read on its
// source whenever it wants more compressed bytes, and returns
// decompressed bytes from its own Read. The decoder's contract is the
// opposite — push compressed bytes in, get decompressed bytes out as
// soon as they exist — so Inflater bridges the two with an io.Pipe and
// one worker goroutine that drives the blocking Reader.Read loop and
// hands each batch to a Sink. The goroutine is entirely owned by the
// adapter and joined by Close/Abort; every external Write blocks only
// until the worker has made matching progress, so from the caller's
// side the adapter still behaves like a synchronous step.
package zlibio

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// ErrZlib wraps any error the zlib engine itself raises (bad header, bad
// checksum, corrupt DEFLATE stream); the decoder surfaces it as ZLIB_ERR.
var ErrZlib = errors.New("zlibio: zlib stream error")

// Sink receives decompressed bytes as they become available. Drain must
// consume or copy p before returning; the underlying buffer is reused.
type Sink interface {
	Drain(p []byte) error
}

// readBufSize mirrors the codec's 32 KiB zbuf.
const readBufSize = 32 * 1024

// Inflater incrementally decompresses a zlib stream, handing decoded
// bytes to a Sink as soon as the zlib reader returns them.
type Inflater struct {
	pw   *io.PipeWriter
	done chan error

	joinOnce sync.Once
	joinErr  error
}

// NewInflater starts the background inflate worker. Bytes written via
// Write are the zlib stream (the concatenation of every IDAT payload);
// decoded bytes are delivered to sink.Drain in batches of at most
// readBufSize bytes.
func NewInflater(sink Sink) *Inflater {
	pr, pw := io.Pipe()
	inf := &Inflater{pw: pw, done: make(chan error, 1)}
	go inf.run(pr, sink)
	return inf
}

func (inf *Inflater) run(pr *io.PipeReader, sink Sink) {
	zr, err := zlib.NewReader(pr)
	if err != nil {
		pr.CloseWithError(err)
		inf.done <- errors.Wrap(ErrZlib, err.Error())
		return
	}
	buf := make([]byte, readBufSize)
	for {
		n, rerr := zr.Read(buf)
		if n > 0 {
			if serr := sink.Drain(buf[:n]); serr != nil {
				pr.CloseWithError(serr)
				inf.done <- serr
				return
			}
		}
		if rerr == io.EOF {
			pr.Close()
			inf.done <- nil
			return
		}
		if rerr != nil {
			pr.CloseWithError(rerr)
			inf.done <- errors.Wrap(ErrZlib, rerr.Error())
			return
		}
	}
}

// Write feeds more of the zlib stream in. It implements chunk.IDATSink,
// so a chunk.Framer can stream IDAT payload bytes straight into it.
func (inf *Inflater) Write(p []byte) (int, error) {
	return inf.pw.Write(p)
}

// join waits for the worker exactly once; Close and Abort may both be
// called, in either order, without a second blocking receive.
func (inf *Inflater) join() error {
	inf.joinOnce.Do(func() { inf.joinErr = <-inf.done })
	return inf.joinErr
}

// Close signals end of stream and waits for the worker to finish
// draining and validate the Adler-32 trailer.
func (inf *Inflater) Close() error {
	_ = inf.pw.Close()
	return inf.join()
}

// Abort tears the worker down without waiting for a clean finish; used
// when the decoder has already latched an unrelated error and is
// discarding the stream.
func (inf *Inflater) Abort() {
	_ = inf.pw.CloseWithError(io.ErrClosedPipe)
	_ = inf.join()
}

// Deflater incrementally compresses raw scanline bytes into a zlib
// stream, mirroring the encoder's zbuf: Write pushes packed scanline
// bytes in, Flush forces a SYNC_FLUSH so the chunk framer can harvest
// whatever is ready via Drain, and Finish closes the stream (final
// block plus Adler-32 trailer) once the filter emitter reports done.
type Deflater struct {
	buf *bytes.Buffer
	zw  *zlib.Writer
}

// NewDeflater starts a deflate stream at default compression.
func NewDeflater() *Deflater {
	buf := &bytes.Buffer{}
	zw, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
	return &Deflater{buf: buf, zw: zw}
}

// Write accepts more raw (filtered, packed) scanline bytes.
func (d *Deflater) Write(p []byte) (int, error) {
	n, err := d.zw.Write(p)
	if err != nil {
		return n, errors.Wrap(ErrZlib, err.Error())
	}
	return n, nil
}

// Flush emits a SYNC_FLUSH so every byte written so far is available
// from Drain, even if it wouldn't otherwise fill a DEFLATE block.
func (d *Deflater) Flush() error {
	if err := d.zw.Flush(); err != nil {
		return errors.Wrap(ErrZlib, err.Error())
	}
	return nil
}

// Finish closes the zlib stream: final DEFLATE block plus the trailing
// Adler-32 checksum. Drain after Finish to collect the tail.
func (d *Deflater) Finish() error {
	if err := d.zw.Close(); err != nil {
		return errors.Wrap(ErrZlib, err.Error())
	}
	return nil
}

// Drain returns and clears whatever compressed bytes are currently
// buffered, ready to be split across IDAT chunks.
func (d *Deflater) Drain() []byte {
	if d.buf.Len() == 0 {
		return nil
	}
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	d.buf.Reset()
	return out
}
