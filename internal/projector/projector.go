package projector

// Point is a pixel coordinate. Depending on context it is either a
// position in the original capture or an offset in the currently
// rendered element's frame.
type Point struct {
	X float64
	Y float64
}

// Size is the on-screen dimensions of a rendered element.
type Size struct {
	Width  float64
	Height float64
}

// Geometry describes the uploaded-image element as rendered in the live
// browser: page position, on-screen size, and border thickness in
// pixels (uniform on all sides). It is captured once per session and
// never re-measured.
type Geometry struct {
	Location Point
	Size     Size
	Border   float64
}

// Center returns the element's center point in page coordinates, which
// is the anchor that projected offsets are relative to.
func (g Geometry) Center() Point {
	return Point{
		X: g.Location.X + g.Size.Width/2,
		Y: g.Location.Y + g.Size.Height/2,
	}
}

// Project maps a pixel coordinate from the original capture into an
// offset relative to the rendered element's center.
//
// The scale factor is derived from width alone: the rendered image is
// assumed to preserve aspect ratio, so height is never independently
// validated. The -1/+1 terms correct for the one-pixel origin
// convention of the original capture and must be preserved exactly to
// stay compatible with previously recorded calibration data.
//
// Preconditions (enforced at config load, not here): originalWidth > 0
// and geom.Size.Width > 2*geom.Border.
func Project(orig Point, originalWidth float64, geom Geometry) Point {
	scale := (geom.Size.Width - 2*geom.Border) / originalWidth
	return Point{
		X: (orig.X-1)*scale - geom.Size.Width/2 + 1 + geom.Border,
		Y: (orig.Y-1)*scale - geom.Size.Height/2 + 1 + geom.Border,
	}
}
