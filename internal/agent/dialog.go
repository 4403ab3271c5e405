package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DialogWatcher accepts native JavaScript dialogs and reports their
// appearance. The calibration app confirms a successful upload with an
// alert, so the watcher must be installed before the upload is
// submitted or the event can be missed.
type DialogWatcher struct {
	ctx      context.Context
	appeared chan string
}

// NewDialogWatcher installs a listener for JavaScript dialogs on the
// browser context. Every dialog is accepted; its message is buffered
// for WaitForDialog.
func NewDialogWatcher(ctx context.Context) *DialogWatcher {
	dw := &DialogWatcher{
		ctx:      ctx,
		appeared: make(chan string, 1),
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if opened, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			log.Printf("[Dialog] %s dialog opened: %q", opened.Type, opened.Message)
			go func() {
				err := chromedp.Run(ctx, page.HandleJavaScriptDialog(true))
				if err != nil {
					log.Printf("[Dialog] failed to accept dialog: %v", err)
					return
				}
				select {
				case dw.appeared <- opened.Message:
				default:
				}
			}()
		}
	})

	return dw
}

// WaitForDialog blocks until a dialog has been accepted or the bound
// elapses. The message of the accepted dialog is returned. A timeout is
// fatal to the run; there is no retry.
func (dw *DialogWatcher) WaitForDialog(timeout time.Duration) (string, error) {
	select {
	case msg := <-dw.appeared:
		return msg, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no dialog appeared within %v", timeout)
	case <-dw.ctx.Done():
		return "", fmt.Errorf("browser context closed while waiting for dialog: %w", dw.ctx.Err())
	}
}
