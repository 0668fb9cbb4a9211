package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Options configures the headless Chrome session.
type Options struct {
	Headless  bool
	UserAgent string
}

// ChromeSession implements Session on top of chromedp. One allocator and
// browser context are shared by all tabs opened from it.
type ChromeSession struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	primary       *chromeTab
}

// NewChromeSession starts a Chrome process and returns the session with its
// primary tab ready for use.
func NewChromeSession(opts Options) (*ChromeSession, error) {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if opts.Headless {
		execOpts = append(execOpts, chromedp.Headless)
	}
	if opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so initialization failures surface
	// here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	s := &ChromeSession{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
	s.primary = &chromeTab{ctx: browserCtx, cancel: func() {}}
	return s, nil
}

// NewTab opens an additional tab sharing the browser process.
func (s *ChromeSession) NewTab() (Page, error) {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	return &chromeTab{ctx: tabCtx, cancel: cancel}, nil
}

// Close shuts down every tab and the browser process.
func (s *ChromeSession) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}

func (s *ChromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.primary.Navigate(ctx, url, timeout)
}

func (s *ChromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.primary.WaitVisible(ctx, selector, timeout)
}

func (s *ChromeSession) Text(ctx context.Context, selector string) (string, error) {
	return s.primary.Text(ctx, selector)
}

func (s *ChromeSession) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	return s.primary.Attribute(ctx, selector, name)
}

func (s *ChromeSession) Evaluate(ctx context.Context, script string, out any) error {
	return s.primary.Evaluate(ctx, script, out)
}

func (s *ChromeSession) ScrollBy(ctx context.Context, selector string, delta int) error {
	return s.primary.ScrollBy(ctx, selector, delta)
}

// chromeTab is one chromedp browsing context.
type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *chromeTab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := t.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *chromeTab) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = NavigationTimeout
	}
	return t.run(ctx, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

func (t *chromeTab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = ElementTimeout
	}
	return t.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (t *chromeTab) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := t.run(ctx, ElementTimeout, chromedp.Text(selector, &text, chromedp.ByQuery))
	return text, err
}

func (t *chromeTab) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var value string
	var ok bool
	err := t.run(ctx, ElementTimeout, chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery))
	return value, ok, err
}

func (t *chromeTab) Evaluate(ctx context.Context, script string, out any) error {
	return t.run(ctx, ElementTimeout, chromedp.Evaluate(script, out))
}

func (t *chromeTab) ScrollBy(ctx context.Context, selector string, delta int) error {
	script := fmt.Sprintf(`
	(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.scrollBy(0, %d);
		return true;
	})()`, selector, delta)
	var ok bool
	if err := t.Evaluate(ctx, script, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("scroll target %q not found", selector)
	}
	return nil
}

func (t *chromeTab) Close() error {
	t.cancel()
	return nil
}
