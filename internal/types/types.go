package types

// UnknownValue marks a field the extractor could not determine.
const UnknownValue = "Unknown"

// Candidate represents a listing parsed from the search result feed,
// before detail-page enrichment. URL is the unique key.
type Candidate struct {
	URL           string  `json:"url"`
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`       // 0 means unknown, otherwise in [1,5]
	ReviewCount   int     `json:"review_count"` // 0 means unknown
	Category      string  `json:"category"`
	BudgetText    string  `json:"budget_text"`
	ReviewSnippet string  `json:"review_snippet"`
	RawListText   string  `json:"-"`
}

// DetailRecord holds the data fetched from a listing's detail page.
type DetailRecord struct {
	Address           string
	Category          string
	BudgetText        string
	BusinessHoursText string
	Rating            float64
	ReviewCount       int
}

// MergedResult is a Candidate combined with its DetailRecord.
type MergedResult struct {
	URL               string  `json:"url"`
	Name              string  `json:"name"`
	Rating            float64 `json:"rating"`
	ReviewCount       int     `json:"review_count"`
	Category          string  `json:"category"`
	BudgetText        string  `json:"budget_text"`
	BusinessHoursText string  `json:"business_hours_text"`
	Address           string  `json:"address"`
	ReviewSnippet     string  `json:"review_snippet"`
}

// Merge combines a candidate with its detail record into a new value.
//
// Precedence: rating and review count use the detail value when it is
// strictly positive, otherwise the list-stage value; category prefers a
// known (non-Unknown) candidate value over detail; budget prefers the
// candidate; the review snippet always comes from the candidate.
func Merge(c Candidate, d DetailRecord) MergedResult {
	m := MergedResult{
		URL:               c.URL,
		Name:              c.Name,
		Rating:            c.Rating,
		ReviewCount:       c.ReviewCount,
		Category:          c.Category,
		BudgetText:        c.BudgetText,
		BusinessHoursText: d.BusinessHoursText,
		Address:           d.Address,
		ReviewSnippet:     c.ReviewSnippet,
	}

	if d.Rating > 0 {
		m.Rating = d.Rating
	}
	if d.ReviewCount > 0 {
		m.ReviewCount = d.ReviewCount
	}
	if (c.Category == "" || c.Category == UnknownValue) && d.Category != "" {
		m.Category = d.Category
	}
	if c.BudgetText == "" {
		m.BudgetText = d.BudgetText
	}

	return m
}

// FilterConfig holds the user-supplied filter criteria for one run.
// It is read-only after construction.
type FilterConfig struct {
	RatingMin      float64
	RatingMax      float64 // 0 means no upper bound
	ReviewCountMin int
	ReviewCountMax int // 0 means no upper bound
	AddressTerms   []string
	CategoryTerms  []string
	BudgetMin      int // 0 means no lower bound
	BudgetMax      int // 0 means no upper bound
	DaysOfWeek     []string
	TimeOfDay      string // "HH:MM", empty means no time filter
	MaxItems       int    // 0 means unlimited
}

// FilterOutcome reports the result of a post-filter evaluation.
// Reason is always populated when Passed is false.
type FilterOutcome struct {
	Passed bool
	Reason string
}

// Pass returns a passing outcome.
func Pass() FilterOutcome {
	return FilterOutcome{Passed: true}
}

// Fail returns a failing outcome with the given reason.
func Fail(reason string) FilterOutcome {
	return FilterOutcome{Passed: false, Reason: reason}
}

// SearchRequest describes one pipeline run.
type SearchRequest struct {
	AddressQuery string
	Keyword      string
	Filter       FilterConfig
}

// Query returns the search phrase submitted to the map site.
func (r SearchRequest) Query() string {
	if r.AddressQuery == "" {
		return r.Keyword
	}
	return r.AddressQuery + " " + r.Keyword
}
