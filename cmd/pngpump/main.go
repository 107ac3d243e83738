// Command pngpump is a minimal smoke-test harness for the codec: it
// reads a PNG file in arbitrarily-sized chunks, drives a Decoder with
// them, and logs the resulting descriptor. It is not a general PNG
// viewer or shell — just enough to exercise the pump loop end to end.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/rkujawa/pngcodec"
)

func main() {
	path := flag.String("in", "", "path to a PNG file to decode")
	chunkSize := flag.Int("chunk", 4096, "bytes read per pump step")
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: pngpump -in <file.png>")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := pngcodec.NewDecoder()
	buf := make([]byte, *chunkSize)
	var pending []byte
	for !dec.Finished() {
		n, rerr := f.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for len(pending) > 0 {
				c := dec.Write(pending)
				pending = pending[c:]
				if c == 0 {
					break
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			log.Fatalf("read: %v", rerr)
		}
	}

	if !dec.Finished() {
		_ = dec.Close()
	}

	info := dec.Info()
	log.Printf("status=%s width=%d height=%d bitdepth=%d colourtype=%d interlace=%d",
		info.Status, info.Width, info.Height, info.BitDepth, info.ColourType, info.Interlace)
	if dec.Err() != nil {
		log.Fatalf("decode error: %v", dec.Err())
	}
}
