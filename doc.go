// Package pngcodec implements a streaming PNG encoder and decoder.
//
// Both halves are pumps: Decoder.Write accepts however many wire bytes
// the caller currently has and reports how many it consumed; Encoder.Read
// fills the caller's buffer with however many wire bytes it can produce
// before running out of pixel data. Neither half spawns a thread of its
// own — the one documented exception is internal/zlibio's Inflater,
// which owns a single goroutine to bridge the zlib package's pull-style
// Reader onto the codec's push contract; see that package's doc comment.
//
// The five PNG colour types (grey, RGB, indexed, grey+alpha, RGBA) and
// all five bit depths (1, 2, 4, 8, 16) are supported for both directions,
// plus Adam7 interlacing and the two post-decode RGBA converters.
package pngcodec
