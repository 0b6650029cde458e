// Package render maps flow field cells to colors and paints them onto raster surfaces.
package render

// Surface is a 2D drawing target with mutable pixel dimensions
// Origin is top-left, units are the surface's native pixels
type Surface interface {
	// Resize reallocates the pixel buffer, contents are discarded
	Resize(width, height int)
	// Clear makes the rectangle fully transparent
	Clear(x, y, w, h float64)
	// FillRect composites c over the rectangle
	FillRect(x, y, w, h float64, c Color)
}

// Presenter is implemented by surfaces that buffer a frame before showing it
type Presenter interface {
	Present()
}

// PixelRect converts a float rectangle to integer pixel bounds clipped to w×h
// Edges round to nearest so adjacent tiles share boundaries without gaps
func PixelRect(x, y, w, h float64, width, height int) (x0, y0, x1, y1 int) {
	x0 = clampInt(roundInt(x), 0, width)
	y0 = clampInt(roundInt(y), 0, height)
	x1 = clampInt(roundInt(x+w), 0, width)
	y1 = clampInt(roundInt(y+h), 0, height)
	return
}

func roundInt(v float64) int {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
