package calibration

import (
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/plotpoint/calibration-agent/internal/projector"
)

// AxisCalibration pairs two reference points on one chart axis with
// their real-world values. The target application derives the axis
// mapping from these two samples.
type AxisCalibration struct {
	Point1 projector.Point
	Point2 projector.Point
	Value1 float64
	Value2 float64
}

// ImageSpec describes one recorded calibration session: the uploaded
// image, the axis reference points recorded against the original
// rendering, and the data points to replay. It is built once at startup
// and never mutated.
type ImageSpec struct {
	// FileName is resolved against the image directory at upload time.
	FileName string
	// Width is the original image's pixel width, the sole input to the
	// projection scale factor.
	Width float64
	XAxis AxisCalibration
	YAxis AxisCalibration
	// DataPoints are clicked in exactly this order. Duplicates are
	// permitted and replayed as-is.
	DataPoints []projector.Point
}

// AxisPoints returns the four axis reference points in replay order:
// x-axis point 1, x-axis point 2, y-axis point 1, y-axis point 2.
func (s ImageSpec) AxisPoints() [4]projector.Point {
	return [4]projector.Point{
		s.XAxis.Point1,
		s.XAxis.Point2,
		s.YAxis.Point1,
		s.YAxis.Point2,
	}
}

// Validate checks the invariants the projection and the replay depend
// on. A spec that passes validation cannot produce a non-finite scale
// factor or an ambiguous axis mapping.
func (s ImageSpec) Validate() error {
	if s.FileName == "" {
		return fmt.Errorf("image file name is empty")
	}
	if s.Width <= 0 {
		return fmt.Errorf("original image width must be positive, got %v", s.Width)
	}
	if err := s.XAxis.validate("x"); err != nil {
		return err
	}
	if err := s.YAxis.validate("y"); err != nil {
		return err
	}
	return nil
}

func (a AxisCalibration) validate(axis string) error {
	if a.Point1 == a.Point2 {
		return fmt.Errorf("%s-axis reference points coincide at (%v, %v)", axis, a.Point1.X, a.Point1.Y)
	}
	if a.Value1 == a.Value2 {
		return fmt.Errorf("%s-axis calibration values are both %v", axis, a.Value1)
	}
	return nil
}

// VerifyImageFile opens the image under dir and checks that its decoded
// pixel width matches the configured original width. A mismatch means
// the recorded coordinates belong to a different rendering of the file
// and every projected click would land off target.
func (s ImageSpec) VerifyImageFile(dir string) (string, error) {
	path, err := filepath.Abs(filepath.Join(dir, s.FileName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path for %s: %w", s.FileName, err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", path, err)
	}

	if w := float64(img.Bounds().Dx()); w != s.Width {
		return "", fmt.Errorf("image %s is %v pixels wide, spec expects %v", path, w, s.Width)
	}

	return path, nil
}

// DefaultSpec returns the canonical recorded session: a 784-pixel-wide
// plot with axis values 0..10 horizontally and 0..100 vertically, and
// nine data points across three series.
func DefaultSpec() ImageSpec {
	return ImageSpec{
		FileName: "1.jpg",
		Width:    784,
		XAxis: AxisCalibration{
			Point1: projector.Point{X: 127, Y: 581},
			Point2: projector.Point{X: 735, Y: 400},
			Value1: 0,
			Value2: 10,
		},
		YAxis: AxisCalibration{
			Point1: projector.Point{X: 262, Y: 621},
			Point2: projector.Point{X: 192, Y: 241},
			Value1: 0,
			Value2: 100,
		},
		DataPoints: []projector.Point{
			{X: 113, Y: 505},
			{X: 99, Y: 429},
			{X: 85, Y: 354},
			{X: 234, Y: 469},
			{X: 220, Y: 393},
			{X: 206, Y: 318},
			{X: 356, Y: 433},
			{X: 342, Y: 357},
			{X: 328, Y: 281},
		},
	}
}
