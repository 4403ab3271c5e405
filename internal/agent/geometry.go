package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/chromedp/chromedp"
	"github.com/plotpoint/calibration-agent/internal/projector"
)

// ErrNoBorderWidth marks a computed border style with no pixel token.
var ErrNoBorderWidth = errors.New("no pixel border width in style")

var borderPxPattern = regexp.MustCompile(`\b(\d+)px\b`)

// IsBorderDataError reports whether err stems from an unparseable
// border style, as opposed to the element not being found at all.
func IsBorderDataError(err error) bool {
	return errors.Is(err, ErrNoBorderWidth)
}

// ParseBorderPx extracts the border thickness from a computed border
// style string such as "2px solid rgb(0, 0, 0)". A style with no pixel
// token is a data error, never a silent zero: every downstream
// projection depends on this value.
func ParseBorderPx(style string) (float64, error) {
	match := borderPxPattern.FindStringSubmatch(style)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoBorderWidth, style)
	}
	px, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("unparseable border width %q: %w", match[1], err)
	}
	return float64(px), nil
}

// elementMetrics is the shape returned by the geometry probe script.
type elementMetrics struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Border string  `json:"border"`
}

// ResolveGeometry locates the rendered image element by selector and
// reads its viewport position, on-screen size, and computed border
// style in one evaluation. Viewport coordinates are what the CDP mouse
// events take, so no scroll correction is applied. The caller treats the result as constant for the rest
// of the session; a mid-run window resize is not re-measured.
func ResolveGeometry(ctx context.Context, selector string) (projector.Geometry, error) {
	script := fmt.Sprintf(`
(function() {
	const el = document.querySelector(%q);
	if (!el) {
		return null;
	}
	const rect = el.getBoundingClientRect();
	return {
		left: rect.left,
		top: rect.top,
		width: rect.width,
		height: rect.height,
		border: getComputedStyle(el).getPropertyValue('border')
	};
})();
`, selector)

	var metrics *elementMetrics
	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(script, &metrics),
	)
	if err != nil {
		return projector.Geometry{}, fmt.Errorf("failed to measure element %s: %w", selector, err)
	}
	if metrics == nil {
		return projector.Geometry{}, fmt.Errorf("no element found for selector %s", selector)
	}

	border, err := ParseBorderPx(metrics.Border)
	if err != nil {
		return projector.Geometry{}, err
	}

	return projector.Geometry{
		Location: projector.Point{X: metrics.Left, Y: metrics.Top},
		Size:     projector.Size{Width: metrics.Width, Height: metrics.Height},
		Border:   border,
	}, nil
}
