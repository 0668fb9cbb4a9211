// Package browser exposes the page-automation capability the pipeline is
// built against: navigation, element waits, text/attribute reads, script
// evaluation and scrolling. The rest of the codebase depends only on the
// Page interface, never on a concrete markup schema or driver.
package browser

import (
	"context"
	"time"
)

// Default timeouts for the two tiers of page operations.
const (
	NavigationTimeout = 60 * time.Second
	ElementTimeout    = 20 * time.Second
)

// Page is one browsing context (a tab). All methods honor ctx cancellation.
type Page interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitVisible blocks until the selector matches a visible element.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Text returns the visible text of the first element matching selector.
	Text(ctx context.Context, selector string) (string, error)
	// Attribute returns the named attribute of the first match; ok is false
	// when the attribute is absent.
	Attribute(ctx context.Context, selector, name string) (value string, ok bool, err error)
	// Evaluate runs script in the page and unmarshals the result into out.
	Evaluate(ctx context.Context, script string, out any) error
	// ScrollBy scrolls the element matching selector by delta pixels.
	ScrollBy(ctx context.Context, selector string, delta int) error
	// Close releases the tab.
	Close() error
}

// Session owns the browser process and can open additional tabs.
type Session interface {
	Page
	// NewTab opens an independent browsing context sharing the session.
	NewTab() (Page, error)
}
