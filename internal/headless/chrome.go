package headless

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	defaultTimeout = 45 * time.Second
	// settleDelay lets scripts finish pushing into the data layer when
	// no wait predicate is configured
	settleDelay = 2 * time.Second
)

// Options configure the shared browser.
type Options struct {
	// RemoteURL is a DevTools websocket endpoint of a browser
	// container; empty launches a local headless browser per call
	RemoteURL string

	// Timeout bounds one navigation plus evaluation
	Timeout time.Duration

	// WaitExpression is a JavaScript predicate polled until truthy
	// after navigation, before the target expression runs
	WaitExpression string
}

// Chrome renders pages in a real browser and evaluates JavaScript in
// them. It backs both analytics extraction and token bootstrap.
type Chrome struct {
	opts Options
}

// NewChrome creates a browser-backed renderer
func NewChrome(opts Options) *Chrome {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Chrome{opts: opts}
}

// Evaluate loads url, waits for the page to settle, and returns the
// JSON-encoded value of expression
func (c *Chrome) Evaluate(ctx context.Context, url, expression string) (json.RawMessage, error) {
	allocCtx, cancelAlloc := c.allocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancelTimeout()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => false, configurable: true});`, nil),
	}
	if c.opts.WaitExpression != "" {
		tasks = append(tasks, chromedp.Poll(c.opts.WaitExpression, nil,
			chromedp.WithPollingTimeout(c.opts.Timeout)))
	} else {
		tasks = append(tasks, chromedp.Sleep(settleDelay))
	}

	var out json.RawMessage
	tasks = append(tasks, chromedp.Evaluate(expression, &out))

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Chrome) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, c.opts.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	return chromedp.NewExecAllocator(ctx, opts...)
}
