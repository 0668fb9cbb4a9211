package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-scripts/placescout/internal/browser"
	"github.com/go-scripts/placescout/internal/extract"
	"github.com/go-scripts/placescout/internal/types"
)

// Site describes how the pipeline locates the pieces of the map-search page.
// Everything is a plain selector or URL template so a markup change means a
// config change, not a code change.
type Site struct {
	BaseURL        string
	SearchInputs   []string // fallback chain, tried in order
	FeedSelector   string
	ItemLink       string
	EndSentinel    string
	DetailAddress  string
	DetailCategory string
	DetailHours    string
	DetailBudget   string
	DetailRating   string
	DetailReviews  string
}

// DefaultSite returns selectors for a Google-Maps-style search page.
func DefaultSite() Site {
	return Site{
		BaseURL:      "https://www.google.com/maps",
		SearchInputs: []string{"input#searchboxinput", "input[name='q']", "input[role='combobox']"},
		FeedSelector: "div[role='feed']",
		ItemLink:     "a[href*='/maps/place/']",
		EndSentinel:  "リストの最後に到達しました",

		DetailAddress:  "button[data-item-id='address']",
		DetailCategory: "button[jsaction*='category']",
		DetailHours:    "div[aria-label*='営業時間'], div[aria-label*='Hours']",
		DetailBudget:   "span[aria-label*='価格'], span[aria-label*='Price']",
		DetailRating:   "div[role='main'] span[aria-hidden='true']",
		DetailReviews:  "div[role='main'] span[aria-label*='件'], div[role='main'] span[aria-label*='review']",
	}
}

// resultFeed adapts the loaded search page to the scroll and extract
// interfaces.
type resultFeed struct {
	page browser.Page
	site Site
}

func (f *resultFeed) Extent(ctx context.Context) (int, error) {
	script := fmt.Sprintf(`
	(() => {
		const feed = document.querySelector(%q);
		return feed ? feed.scrollHeight : 0;
	})()`, f.site.FeedSelector)
	var extent int
	err := f.page.Evaluate(ctx, script, &extent)
	return extent, err
}

func (f *resultFeed) Scroll(ctx context.Context) error {
	return f.page.ScrollBy(ctx, f.site.FeedSelector, 3000)
}

func (f *resultFeed) EndVisible(ctx context.Context) (bool, error) {
	script := fmt.Sprintf(`
	(() => {
		const feed = document.querySelector(%q);
		return feed ? feed.innerText.includes(%q) : false;
	})()`, f.site.FeedSelector, f.site.EndSentinel)
	var visible bool
	err := f.page.Evaluate(ctx, script, &visible)
	return visible, err
}

// Items collects every listing link in the feed with the visible text and
// accessible label of its containing item.
func (f *resultFeed) Items(ctx context.Context) ([]extract.Item, error) {
	script := fmt.Sprintf(`
	(() => {
		const links = document.querySelectorAll(%q + ' ' + %q);
		const items = [];
		links.forEach(a => {
			const container = a.closest('div[jsaction]') || a.parentElement;
			items.push({
				url: a.href || '',
				label: a.getAttribute('aria-label') || '',
				text: container ? container.innerText : ''
			});
		});
		return JSON.stringify(items);
	})()`, f.site.FeedSelector, f.site.ItemLink)

	var raw string
	if err := f.page.Evaluate(ctx, script, &raw); err != nil {
		return nil, err
	}

	var items []struct {
		URL   string `json:"url"`
		Label string `json:"label"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing feed items: %w", err)
	}

	out := make([]extract.Item, 0, len(items))
	for _, it := range items {
		out = append(out, extract.Item{URL: it.URL, Label: it.Label, Text: it.Text})
	}
	return out, nil
}

// detailFetcher pulls a DetailRecord off a listing's detail page.
type detailFetcher struct {
	site Site
}

func (d *detailFetcher) Fetch(ctx context.Context, tab browser.Page, url string) (types.DetailRecord, error) {
	var rec types.DetailRecord

	if err := tab.Navigate(ctx, url, browser.NavigationTimeout); err != nil {
		return rec, fmt.Errorf("navigating to detail page: %w", err)
	}
	// Let the side panel render before reading.
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return rec, ctx.Err()
	}

	script := fmt.Sprintf(`
	(() => {
		const text = sel => {
			const el = document.querySelector(sel);
			return el ? el.innerText.trim() : '';
		};
		const label = sel => {
			const el = document.querySelector(sel);
			return el ? (el.getAttribute('aria-label') || el.innerText || '').trim() : '';
		};
		return JSON.stringify({
			address: text(%q),
			category: text(%q),
			hours: label(%q),
			budget: label(%q),
			rating: text(%q),
			reviews: label(%q)
		});
	})()`, d.site.DetailAddress, d.site.DetailCategory, d.site.DetailHours,
		d.site.DetailBudget, d.site.DetailRating, d.site.DetailReviews)

	var raw string
	if err := tab.Evaluate(ctx, script, &raw); err != nil {
		return rec, fmt.Errorf("reading detail fields: %w", err)
	}

	var fields struct {
		Address  string `json:"address"`
		Category string `json:"category"`
		Hours    string `json:"hours"`
		Budget   string `json:"budget"`
		Rating   string `json:"rating"`
		Reviews  string `json:"reviews"`
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return rec, fmt.Errorf("parsing detail fields: %w", err)
	}

	rec.Address = fields.Address
	rec.Category = fields.Category
	rec.BusinessHoursText = fields.Hours
	rec.BudgetText = extract.ParseBudget(fields.Budget)
	rec.Rating = extract.ParseRating(fields.Rating)
	rec.ReviewCount = extract.ParseReviewCount(fields.Reviews)
	return rec, nil
}
