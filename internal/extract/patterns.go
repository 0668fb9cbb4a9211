package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-scripts/placescout/internal/types"
)

// Each field is parsed by a pure function running an ordered list of pattern
// attempts over the raw list text, with a documented default. Listing text on
// map sites mixes Japanese and English markers, so both are matched.

var (
	ratingPattern       = regexp.MustCompile(`[1-5]\.\d`)
	ratingTrailPattern  = regexp.MustCompile(`[1-5]\.\d\S*$`)
	reviewAdjacent      = regexp.MustCompile(`[1-5]\.\d\s*[(（]([\d,]+)[)）]`)
	reviewSuffix        = regexp.MustCompile(`([\d,]+)\s*(?:件|reviews?)`)
	reviewParens        = regexp.MustCompile(`[(（]([\d,]+)[)）]`)
	budgetRange         = regexp.MustCompile(`[¥￥$][\d,]+\s*[~～-]\s*[¥￥$]?[\d,]+`)
	budgetLeading       = regexp.MustCompile(`^[¥￥$]([\d,]+)`)
	categoryAfterBudget = regexp.MustCompile(`[¥￥$][\d,]+\s*[~～-]\s*[¥￥$]?[\d,]+\s*[·・]\s*([^·・\n]+)`)
	categoryBetween     = regexp.MustCompile(`[·・]\s*([^·・\n\d][^·・\n]*?)\s*[·・]`)
	categoryTrailing    = regexp.MustCompile(`[·・]\s*([^·・\n]+?)\s*$`)
	quotedSnippet       = regexp.MustCompile(`[「"“]([^」"”]+)[」"”]`)
	starMarker          = regexp.MustCompile(`[★☆]+\s*[1-5](?:\.\d)?`)
)

// ParseName picks the listing name: the accessible label when present,
// otherwise the first text line with any trailing rating marker, bullet
// separator or currency marker stripped. Defaults to Unknown.
func ParseName(label, text string) string {
	if name := strings.TrimSpace(label); name != "" {
		return name
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = ratingTrailPattern.ReplaceAllString(line, "")
		if i := strings.IndexAny(line, "·・"); i >= 0 {
			line = line[:i]
		}
		if i := strings.IndexAny(line, "¥￥$"); i >= 0 {
			line = line[:i]
		}
		if name := strings.TrimSpace(line); name != "" {
			return name
		}
	}
	return types.UnknownValue
}

// ParseRating returns the first decimal in [1.0, 5.0] found in text, or 0
// when no rating is present.
func ParseRating(text string) float64 {
	for _, m := range ratingPattern.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err == nil && v >= 1.0 && v <= 5.0 {
			return v
		}
	}
	return 0
}

// ParseReviewCount tries, in order: a parenthesized count adjacent to a
// rating, an explicit count suffix (N件 / N reviews), then any bare
// parenthesized count. Defaults to 0 (unknown).
func ParseReviewCount(text string) int {
	for _, re := range []*regexp.Regexp{reviewAdjacent, reviewSuffix, reviewParens} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && n >= 0 {
				return n
			}
		}
	}
	return 0
}

// ParseBudget returns the first currency-range token (¥N~¥M), or "".
func ParseBudget(text string) string {
	return budgetRange.FindString(text)
}

// BudgetLowerBound parses the numeric lower bound out of a budget text.
// ok is false when no leading currency amount is present.
func BudgetLowerBound(budget string) (int, bool) {
	m := budgetLeading.FindStringSubmatch(strings.TrimSpace(budget))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCategory matches category text positionally: after a budget token,
// between bullet separators, or trailing the line. A match is accepted only
// when it is 2-20 runes and not purely numeric or punctuation. Defaults to
// Unknown.
func ParseCategory(text string) string {
	for _, re := range []*regexp.Regexp{categoryAfterBudget, categoryBetween, categoryTrailing} {
		if m := re.FindStringSubmatch(text); m != nil {
			if cat := strings.TrimSpace(m[1]); plausibleCategory(cat) {
				return cat
			}
		}
	}
	return types.UnknownValue
}

func plausibleCategory(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || len(runes) > 20 {
		return false
	}
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ParseReviewSnippet returns quoted text from the block, prefixed with a
// preceding star marker when one appears earlier in the same text. Defaults
// to "".
func ParseReviewSnippet(text string) string {
	loc := quotedSnippet.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	snippet := text[loc[2]:loc[3]]
	if star := starMarker.FindString(text[:loc[0]]); star != "" {
		return star + " " + snippet
	}
	return snippet
}
