package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// BrowserManager manages browser lifecycle and navigation
type BrowserManager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewBrowserManager creates a new browser manager
func NewBrowserManager(headless bool) (*BrowserManager, error) {
	// Create allocator context with Chrome
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", headless), // Only disable GPU in headless mode
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Hide automation detection
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		// The calibration app opens a native alert on upload; popup
		// blocking must stay off so it surfaces.
		chromedp.Flag("disable-popup-blocking", false),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	// Create browser context
	ctx, cancel := chromedp.NewContext(allocCtx)

	bm := &BrowserManager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
	}

	return bm, nil
}

// Close shuts down the browser and cleans up resources. Safe to call on
// every exit path; callers defer it so the Chrome process never leaks
// past a failed run.
func (bm *BrowserManager) Close() {
	if bm.cancel != nil {
		bm.cancel()
	}
	if bm.allocCancel != nil {
		bm.allocCancel()
	}
}

// GetContext returns the browser context for running chromedp tasks
func (bm *BrowserManager) GetContext() context.Context {
	return bm.ctx
}

// NavigateAndAwait navigates to the URL and waits until the readiness
// selector is visible, with a bounded timeout. Waiting on a known
// element replaces a fixed settle delay: the page is ready exactly when
// the control the session needs next exists.
func (bm *BrowserManager) NavigateAndAwait(url, readySelector string, timeout time.Duration) error {
	timeoutCtx, timeoutCancel := context.WithTimeout(bm.ctx, timeout)
	defer timeoutCancel()

	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
	)

	if err != nil {
		if err == context.DeadlineExceeded {
			return fmt.Errorf("timeout after %v waiting for %s on %s", timeout, readySelector, url)
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Maximize grows the browser window to the full screen so the rendered
// image geometry is as large and stable as the display allows.
func (bm *BrowserManager) Maximize() error {
	err := chromedp.Run(bm.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, bounds, err := browser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return err
		}
		if bounds.WindowState == browser.WindowStateMaximized {
			return nil
		}
		return browser.SetWindowBounds(windowID, &browser.Bounds{
			WindowState: browser.WindowStateMaximized,
		}).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}
	return nil
}
