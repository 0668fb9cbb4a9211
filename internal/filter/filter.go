// Package filter evaluates candidates against user criteria in two stages:
// a cheap pre-filter over list-stage data and a full post-filter over merged
// detail data. Evaluation never fails; unknown values are deferred rather
// than auto-rejected.
package filter

import (
	"fmt"
	"strings"

	"github.com/go-scripts/placescout/internal/extract"
	"github.com/go-scripts/placescout/internal/types"
)

// splitTerms turns a comma-separated term list into trimmed non-empty terms.
func splitTerms(s string) []string {
	var terms []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// containsAny reports whether text contains any of terms, case-insensitively.
func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// PreFilter decides whether a candidate is worth detail enrichment using
// only list-stage data. Unknown ratings and review counts pass through to
// be re-checked after enrichment.
func PreFilter(c types.Candidate, cfg types.FilterConfig) bool {
	if c.Rating > 0 && c.Rating < cfg.RatingMin {
		return false
	}
	if cfg.RatingMax > 0 && c.Rating > 0 && c.Rating > cfg.RatingMax {
		return false
	}
	if c.ReviewCount > 0 && c.ReviewCount < cfg.ReviewCountMin {
		return false
	}
	if len(cfg.CategoryTerms) > 0 &&
		!containsAny(c.Category, cfg.CategoryTerms) &&
		!containsAny(c.RawListText, cfg.CategoryTerms) {
		return false
	}
	if !budgetInRange(c.BudgetText, cfg.BudgetMin, cfg.BudgetMax) {
		return false
	}
	return true
}

// budgetInRange checks the parseable lower bound of a budget text against
// [min, max]. Unparseable or absent budgets pass.
func budgetInRange(budgetText string, min, max int) bool {
	if min == 0 && max == 0 {
		return true
	}
	lower, ok := extract.BudgetLowerBound(budgetText)
	if !ok {
		return true
	}
	if min > 0 && lower < min {
		return false
	}
	if max > 0 && lower > max {
		return false
	}
	return true
}

// PostFilter evaluates a merged result against the full criteria set. It
// always returns an outcome with a human-readable reason on failure and
// never panics.
func PostFilter(m types.MergedResult, cfg types.FilterConfig) types.FilterOutcome {
	if m.ReviewCount > 0 && m.ReviewCount < cfg.ReviewCountMin {
		return types.Fail(fmt.Sprintf("review count %d below minimum %d", m.ReviewCount, cfg.ReviewCountMin))
	}
	if cfg.ReviewCountMax > 0 && m.ReviewCount > cfg.ReviewCountMax {
		return types.Fail(fmt.Sprintf("review count %d above maximum %d", m.ReviewCount, cfg.ReviewCountMax))
	}
	if len(cfg.AddressTerms) > 0 && !containsAny(m.Address, cfg.AddressTerms) {
		return types.Fail(fmt.Sprintf("address %q matches none of %v", m.Address, cfg.AddressTerms))
	}
	if len(cfg.CategoryTerms) > 0 && !containsAny(m.Category, cfg.CategoryTerms) {
		return types.Fail(fmt.Sprintf("category %q matches none of %v", m.Category, cfg.CategoryTerms))
	}
	if !budgetInRange(m.BudgetText, cfg.BudgetMin, cfg.BudgetMax) {
		return types.Fail(fmt.Sprintf("budget %q outside range [%d, %d]", m.BudgetText, cfg.BudgetMin, cfg.BudgetMax))
	}
	if len(cfg.DaysOfWeek) > 0 && !anyDayOpen(m.BusinessHoursText, cfg.DaysOfWeek) {
		return types.Fail(fmt.Sprintf("not open on any of %v", cfg.DaysOfWeek))
	}
	if cfg.TimeOfDay != "" && !openAt(m.BusinessHoursText, cfg.DaysOfWeek, cfg.TimeOfDay) {
		return types.Fail(fmt.Sprintf("not open at %s", cfg.TimeOfDay))
	}
	return types.Pass()
}

// ParseTerms builds term slices for a FilterConfig from the comma-separated
// form requests arrive in.
func ParseTerms(addressTerms, categoryTerms string) (address, category []string) {
	return splitTerms(addressTerms), splitTerms(categoryTerms)
}
