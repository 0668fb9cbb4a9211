package scheduler

import (
	"context"
	"fmt"

	"github.com/go-scripts/placescout/internal/browser"
)

// TabPool is a bounded pool of browser tabs with acquire/release semantics.
// The session's primary page is always the first worker; additional tabs are
// opened on demand up to the pool size and torn down by ReleaseExtras,
// leaving the primary available for pipeline reuse.
type TabPool struct {
	session browser.Session
	tabs    chan browser.Page
	extras  []browser.Page
}

// NewTabPool builds a pool of size tabs: the session itself plus size-1
// fresh tabs.
func NewTabPool(session browser.Session, size int) (*TabPool, error) {
	if size < 1 {
		size = 1
	}
	p := &TabPool{
		session: session,
		tabs:    make(chan browser.Page, size),
	}
	p.tabs <- session
	for i := 1; i < size; i++ {
		tab, err := session.NewTab()
		if err != nil {
			p.ReleaseExtras()
			return nil, fmt.Errorf("opening tab %d: %w", i, err)
		}
		p.extras = append(p.extras, tab)
		p.tabs <- tab
	}
	return p, nil
}

// Acquire blocks until a tab is free or ctx is done.
func (p *TabPool) Acquire(ctx context.Context) (browser.Page, error) {
	select {
	case tab := <-p.tabs:
		return tab, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a tab to the pool.
func (p *TabPool) Release(tab browser.Page) {
	p.tabs <- tab
}

// ReleaseExtras closes every tab beyond the primary.
func (p *TabPool) ReleaseExtras() {
	for _, tab := range p.extras {
		_ = tab.Close()
	}
	p.extras = nil
}
