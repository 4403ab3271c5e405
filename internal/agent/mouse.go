package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// ClickAt moves the pointer to the viewport coordinate and performs one
// committed left click. Each call is an independent move-press-release
// sequence; clicks are never batched.
func ClickAt(ctx context.Context, x, y float64) error {
	log.Printf("[Mouse] Click at (%.1f, %.1f)", x, y)

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse move to (%.1f, %.1f) failed: %w", x, y, err)
	}

	err = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse press at (%.1f, %.1f) failed: %w", x, y, err)
	}

	err = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse release at (%.1f, %.1f) failed: %w", x, y, err)
	}

	return nil
}

// SetFieldValue clears a text input and types the given text into it.
func SetFieldValue(ctx context.Context, selector, text string, timeout time.Duration) error {
	log.Printf("[Mouse] Set %s = %q", selector, text)

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := chromedp.Run(timeoutCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", selector, err)
	}

	return nil
}

// UploadFile submits an absolute file path to a file input element.
func UploadFile(ctx context.Context, selector, path string, timeout time.Duration) error {
	log.Printf("[Mouse] Upload %s via %s", path, selector)

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := chromedp.Run(timeoutCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", path, selector, err)
	}

	return nil
}
