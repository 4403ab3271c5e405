package agent

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/plotpoint/calibration-agent/internal/calibration"
	"github.com/plotpoint/calibration-agent/internal/projector"
)

// Stage identifies how far a session has progressed. The session is a
// linear state machine with no branching: every run visits the stages
// in this order or aborts.
type Stage string

const (
	StageStart             Stage = "start"
	StagePageLoaded        Stage = "page-loaded"
	StageImageUploaded     Stage = "image-uploaded"
	StageElementResolved   Stage = "element-resolved"
	StageAxesClicked       Stage = "axes-clicked"
	StageValuesEntered     Stage = "values-entered"
	StageDataPointsClicked Stage = "data-points-clicked"
	StageAwaitingClose     Stage = "awaiting-close"
	StageClosed            Stage = "closed"
)

// Stable selectors in the calibration web app.
const (
	// UploadInputSelector is the file input that receives the plot image.
	UploadInputSelector = "#file-upload"
	// ImageSelector is the rendered plot image once upload completes.
	ImageSelector = ".uploaded-image"
	// XAxisValueSelector is the text input for the second x-axis value.
	XAxisValueSelector = "#x-axis-p2"
	// YAxisValueSelector is the text input for the second y-axis value.
	YAxisValueSelector = "#y-axis-p2"
)

const (
	// pageReadyTimeout bounds navigation plus client-side rendering.
	pageReadyTimeout = 30 * time.Second
	// dialogTimeout bounds the wait for the upload-confirmation alert.
	dialogTimeout = 10 * time.Second
	// fieldTimeout bounds each text-input lookup.
	fieldTimeout = 10 * time.Second
)

// ClickTarget is one planned click: a projected offset from the image
// element's center and the absolute viewport coordinate it lands on.
type ClickTarget struct {
	// Label is a human-readable description of the point being replayed.
	Label string
	// Offset is the projected offset relative to the element center.
	Offset projector.Point
	// X, Y is the absolute viewport coordinate to click.
	X float64
	Y float64
}

// ValueEntry is one planned text entry: which input receives which
// calibration value. Only the second value per axis is entered; the
// first is the application's own default, a documented precondition of
// the target app rather than a choice made here.
type ValueEntry struct {
	Selector string
	Value    string
}

// BuildClickPlan projects every recorded point into the current
// geometry and returns the full click sequence: the four axis reference
// points in fixed order, then the data points in input order. The plan
// preserves order and duplicates exactly.
func BuildClickPlan(spec calibration.ImageSpec, geom projector.Geometry) []ClickTarget {
	center := geom.Center()
	plan := make([]ClickTarget, 0, 4+len(spec.DataPoints))

	axisLabels := [4]string{"x-axis point 1", "x-axis point 2", "y-axis point 1", "y-axis point 2"}
	for i, pt := range spec.AxisPoints() {
		off := projector.Project(pt, spec.Width, geom)
		plan = append(plan, ClickTarget{
			Label:  axisLabels[i],
			Offset: off,
			X:      center.X + off.X,
			Y:      center.Y + off.Y,
		})
	}

	for i, pt := range spec.DataPoints {
		off := projector.Project(pt, spec.Width, geom)
		plan = append(plan, ClickTarget{
			Label:  fmt.Sprintf("data point %d", i+1),
			Offset: off,
			X:      center.X + off.X,
			Y:      center.Y + off.Y,
		})
	}

	return plan
}

// BuildValueEntries returns the axis-value entries in entry order. Each
// value is routed to its own axis input; the routing is explicit data
// so it can be verified instead of assumed.
func BuildValueEntries(spec calibration.ImageSpec) []ValueEntry {
	return []ValueEntry{
		{Selector: XAxisValueSelector, Value: FormatAxisValue(spec.XAxis.Value2)},
		{Selector: YAxisValueSelector, Value: FormatAxisValue(spec.YAxis.Value2)},
	}
}

// FormatAxisValue renders a calibration value the way an operator would
// type it: no exponent, no trailing zeros.
func FormatAxisValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Session replays one recorded calibration against one browser session.
// It owns the browser for the lifetime of the run; the caller releases
// it via BrowserManager.Close on every exit path.
type Session struct {
	RunID    uuid.UUID
	URL      string
	ImageDir string
	Spec     calibration.ImageSpec

	browser *BrowserManager
	stage   Stage

	// Geometry is captured at StageElementResolved and constant after.
	Geometry projector.Geometry
}

// NewSession creates a session for one replay run.
func NewSession(bm *BrowserManager, url, imageDir string, spec calibration.ImageSpec) *Session {
	return &Session{
		RunID:    uuid.New(),
		URL:      url,
		ImageDir: imageDir,
		Spec:     spec,
		browser:  bm,
		stage:    StageStart,
	}
}

// Stage returns the last stage the session completed.
func (s *Session) Stage() Stage {
	return s.stage
}

func (s *Session) advance(stage Stage) {
	s.stage = stage
	log.Printf("[Session %s] reached %s", shortID(s.RunID), stage)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// Run executes the replay from navigation through the data-point
// clicks. On return the session is at StageAwaitingClose; the caller
// reports the geometry, waits for the operator, and closes the browser.
// Any error aborts the run with the failing stage attached; a failed
// run is restarted from the beginning, never resumed.
func (s *Session) Run() error {
	ctx := s.browser.GetContext()

	// 1. Launch and navigate. Readiness is the upload control itself,
	// not a fixed settle delay.
	if err := s.browser.NavigateAndAwait(s.URL, UploadInputSelector, pageReadyTimeout); err != nil {
		return NewEnvironmentError(s.stage, fmt.Sprintf("page %s never became ready", s.URL), err)
	}
	if err := s.browser.Maximize(); err != nil {
		return NewEnvironmentError(s.stage, "could not maximize window", err)
	}
	s.advance(StagePageLoaded)

	// 2. Upload. The watcher must exist before the file is submitted so
	// the confirmation alert cannot slip past it.
	watcher := NewDialogWatcher(ctx)

	path, err := s.Spec.VerifyImageFile(s.ImageDir)
	if err != nil {
		return NewEnvironmentError(s.stage, "image file is not usable", err)
	}
	if err := UploadFile(ctx, UploadInputSelector, path, fieldTimeout); err != nil {
		return NewEnvironmentError(s.stage, "upload submission failed", err)
	}
	msg, err := watcher.WaitForDialog(dialogTimeout)
	if err != nil {
		return NewSyncError(s.stage, "upload confirmation alert did not appear", err)
	}
	log.Printf("[Session %s] upload confirmed: %q", shortID(s.RunID), msg)
	s.advance(StageImageUploaded)

	// 3. Resolve the rendered geometry, once.
	geom, err := ResolveGeometry(ctx, ImageSelector)
	if err != nil {
		if IsBorderDataError(err) {
			return NewDataError(s.stage, "rendered image has no parseable border width", err)
		}
		return NewSyncError(s.stage, fmt.Sprintf("rendered image %s not measurable", ImageSelector), err)
	}
	s.Geometry = geom
	s.advance(StageElementResolved)

	plan := BuildClickPlan(s.Spec, geom)

	// 4. Replay the four axis reference clicks.
	for _, target := range plan[:4] {
		if err := s.click(target); err != nil {
			return err
		}
	}
	s.advance(StageAxesClicked)

	// 5. Enter the second calibration value for each axis.
	for _, entry := range BuildValueEntries(s.Spec) {
		if err := SetFieldValue(ctx, entry.Selector, entry.Value, fieldTimeout); err != nil {
			return NewSyncError(s.stage, fmt.Sprintf("axis value input %s not usable", entry.Selector), err)
		}
	}
	s.advance(StageValuesEntered)

	// 6. Replay the data-point clicks in input order.
	for _, target := range plan[4:] {
		if err := s.click(target); err != nil {
			return err
		}
	}
	s.advance(StageDataPointsClicked)

	s.advance(StageAwaitingClose)
	return nil
}

func (s *Session) click(target ClickTarget) error {
	log.Printf("[Session %s] %s: offset (%.1f, %.1f)", shortID(s.RunID), target.Label, target.Offset.X, target.Offset.Y)
	if err := ClickAt(s.browser.GetContext(), target.X, target.Y); err != nil {
		return NewEnvironmentError(s.stage, fmt.Sprintf("click on %s failed", target.Label), err)
	}
	return nil
}

// MarkClosed records that the browser session has been released.
func (s *Session) MarkClosed() {
	s.advance(StageClosed)
}
