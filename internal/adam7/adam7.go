// Package adam7 drives the seven-pass Adam7 interlace schedule (and the
// trivial single-pass schedule for non-interlaced images).
package adam7

// Pass describes one interlace pass: the pixel at (row, col) belongs to
// this pass when row == StartRow + k*RowInc and col == StartCol + k*ColInc
// for some k >= 0.
type Pass struct {
	StartRow, StartCol, RowInc, ColInc int
}

// Passes is the fixed Adam7 schedule.
var Passes = [7]Pass{
	{StartRow: 0, StartCol: 0, RowInc: 8, ColInc: 8},
	{StartRow: 0, StartCol: 4, RowInc: 8, ColInc: 8},
	{StartRow: 4, StartCol: 0, RowInc: 8, ColInc: 4},
	{StartRow: 0, StartCol: 2, RowInc: 4, ColInc: 4},
	{StartRow: 2, StartCol: 0, RowInc: 4, ColInc: 2},
	{StartRow: 0, StartCol: 1, RowInc: 2, ColInc: 2},
	{StartRow: 1, StartCol: 0, RowInc: 2, ColInc: 1},
}

// NonInterlaced is the single pass covering every pixel for interlace
// method 0.
var NonInterlaced = Pass{StartRow: 0, StartCol: 0, RowInc: 1, ColInc: 1}

// Schedule returns the pass list to drive for the given interlace method
// (0 or 1).
func Schedule(interlaced bool) []Pass {
	if !interlaced {
		return []Pass{NonInterlaced}
	}
	return Passes[:]
}

// Dimensions returns the pixel width and height of pass p against a
// width x height image. Either may be zero, meaning the pass is empty
// and must be skipped.
func (p Pass) Dimensions(width, height int) (w, h int) {
	if width <= p.StartCol {
		w = 0
	} else {
		w = (width - p.StartCol + p.ColInc - 1) / p.ColInc
	}
	if height <= p.StartRow {
		h = 0
	} else {
		h = (height - p.StartRow + p.RowInc - 1) / p.RowInc
	}
	return w, h
}
