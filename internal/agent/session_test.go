package agent

import (
	"errors"
	"testing"

	"github.com/plotpoint/calibration-agent/internal/calibration"
	"github.com/plotpoint/calibration-agent/internal/projector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unityGeometry renders the default spec's image at its original width
// with a 2px border, so projected offsets are easy to verify by hand.
func unityGeometry() projector.Geometry {
	return projector.Geometry{
		Location: projector.Point{X: 100, Y: 50},
		Size:     projector.Size{Width: 784, Height: 600},
		Border:   2,
	}
}

func TestBuildClickPlanLength(t *testing.T) {
	spec := calibration.DefaultSpec()

	plan := BuildClickPlan(spec, unityGeometry())

	// Four axis reference clicks plus nine data points.
	assert.Len(t, plan, 13)
}

func TestBuildClickPlanAxisOrderAndOffsets(t *testing.T) {
	spec := calibration.DefaultSpec()
	geom := unityGeometry()

	plan := BuildClickPlan(spec, geom)

	assert.Equal(t, "x-axis point 1", plan[0].Label)
	assert.Equal(t, "x-axis point 2", plan[1].Label)
	assert.Equal(t, "y-axis point 1", plan[2].Label)
	assert.Equal(t, "y-axis point 2", plan[3].Label)

	// Worked example at unity scale: (127, 581) -> offset (-263, 283).
	assert.InDelta(t, -263, plan[0].Offset.X, 1e-9)
	assert.InDelta(t, 283, plan[0].Offset.Y, 1e-9)

	// Absolute target is element center plus offset.
	center := geom.Center()
	assert.InDelta(t, center.X-263, plan[0].X, 1e-9)
	assert.InDelta(t, center.Y+283, plan[0].Y, 1e-9)
}

func TestBuildClickPlanPreservesDataPointOrder(t *testing.T) {
	spec := calibration.DefaultSpec()
	geom := unityGeometry()

	forward := BuildClickPlan(spec, geom)

	reversed := spec
	reversed.DataPoints = make([]projector.Point, len(spec.DataPoints))
	for i, pt := range spec.DataPoints {
		reversed.DataPoints[len(spec.DataPoints)-1-i] = pt
	}
	backward := BuildClickPlan(reversed, geom)

	// Permuting the input permutes the plan identically; nothing is
	// reordered or deduplicated.
	n := len(spec.DataPoints)
	for i := 0; i < n; i++ {
		assert.Equal(t, forward[4+i].Offset, backward[4+n-1-i].Offset)
	}
	// Axis clicks are unaffected by data-point order.
	assert.Equal(t, forward[:4], backward[:4])
}

func TestBuildClickPlanKeepsDuplicates(t *testing.T) {
	spec := calibration.DefaultSpec()
	spec.DataPoints = []projector.Point{{X: 113, Y: 505}, {X: 113, Y: 505}}

	plan := BuildClickPlan(spec, unityGeometry())

	require.Len(t, plan, 6)
	assert.Equal(t, plan[4].Offset, plan[5].Offset)
}

func TestBuildValueEntriesRouting(t *testing.T) {
	spec := calibration.DefaultSpec()

	entries := BuildValueEntries(spec)

	// Each axis value goes to its own input, x first.
	require.Len(t, entries, 2)
	assert.Equal(t, ValueEntry{Selector: XAxisValueSelector, Value: "10"}, entries[0])
	assert.Equal(t, ValueEntry{Selector: YAxisValueSelector, Value: "100"}, entries[1])
}

func TestFormatAxisValue(t *testing.T) {
	assert.Equal(t, "0", FormatAxisValue(0))
	assert.Equal(t, "10", FormatAxisValue(10))
	assert.Equal(t, "2.5", FormatAxisValue(2.5))
	assert.Equal(t, "-0.125", FormatAxisValue(-0.125))
}

func TestStageErrorFormatting(t *testing.T) {
	cause := errors.New("net::ERR_CONNECTION_REFUSED")

	err := NewEnvironmentError(StageStart, "page never became ready", cause)

	assert.Equal(t, "[start/environment] page never became ready: net::ERR_CONNECTION_REFUSED", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestStageErrorWithoutCause(t *testing.T) {
	err := NewDataError(StageImageUploaded, "no parseable border", nil)

	assert.Equal(t, "[image-uploaded/data] no parseable border", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewSessionStartsAtStart(t *testing.T) {
	s := NewSession(nil, "http://localhost", ".", calibration.DefaultSpec())

	assert.Equal(t, StageStart, s.Stage())
	assert.NotEqual(t, s.RunID.String(), "")
}
