package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectKnownCapture(t *testing.T) {
	// Unity scale: rendered width equals original width.
	geom := Geometry{
		Location: Point{X: 100, Y: 50},
		Size:     Size{Width: 784, Height: 600},
		Border:   2,
	}

	got := Project(Point{X: 127, Y: 581}, 784, geom)

	assert.InDelta(t, -263, got.X, 1e-9)
	assert.InDelta(t, 283, got.Y, 1e-9)
}

func TestProjectScaleInvariance(t *testing.T) {
	orig := Point{X: 127, Y: 581}

	base := Geometry{Size: Size{Width: 784, Height: 600}}
	doubled := Geometry{Size: Size{Width: 1568, Height: 600}}

	got := Project(orig, 784, base)
	scaled := Project(orig, 1568, doubled)

	// Doubling both the rendered width and the original width with a
	// zero border changes only the centering term, so re-deriving the
	// scale must give the same ratio.
	assert.InDelta(t, (orig.X-1)*1.0, got.X+base.Size.Width/2-1, 1e-9)
	assert.InDelta(t, (orig.X-1)*1.0, scaled.X+doubled.Size.Width/2-1, 1e-9)
	assert.InDelta(t, got.Y, scaled.Y, 1e-9)
}

func TestProjectZeroBorder(t *testing.T) {
	geom := Geometry{Size: Size{Width: 392, Height: 300}}

	got := Project(Point{X: 127, Y: 581}, 784, geom)

	// With no border the formula reduces to (X0-1)*(Sw/W) - Sw/2 + 1.
	assert.InDelta(t, 126*0.5-196+1, got.X, 1e-9)
	assert.InDelta(t, 580*0.5-150+1, got.Y, 1e-9)
}

func TestProjectHalfScale(t *testing.T) {
	geom := Geometry{
		Size:   Size{Width: 396, Height: 304},
		Border: 2,
	}

	// (396 - 4) / 784 = 0.5
	got := Project(Point{X: 3, Y: 5}, 784, geom)

	assert.InDelta(t, 2*0.5-198+1+2, got.X, 1e-9)
	assert.InDelta(t, 4*0.5-152+1+2, got.Y, 1e-9)
}

func TestGeometryCenter(t *testing.T) {
	geom := Geometry{
		Location: Point{X: 100, Y: 40},
		Size:     Size{Width: 784, Height: 600},
	}

	center := geom.Center()

	assert.Equal(t, Point{X: 492, Y: 340}, center)
}
