package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// Business-hours text arrives as free text like
// "月: 18時00分～5時00分、火: 定休日、水: 11:00-22:00". It is split into
// per-day segments; each segment has a day-token prefix and an open~close
// time body. Closing times at or before the opening time span midnight.

var (
	segmentSeparator = regexp.MustCompile(`[、,;/\n]`)
	timeBody         = regexp.MustCompile(`(\d{1,2})[時:](\d{2})分?\s*[~～\-]\s*(\d{1,2})[時:](\d{2})分?`)
)

var closedMarkers = []string{"定休日", "休業", "休み", "closed", "Closed"}

// dayTokens maps accepted day spellings to the canonical single-kanji token
// used to scan hours text.
var dayTokens = map[string]string{
	"月": "月", "月曜日": "月", "月曜": "月", "monday": "月", "mon": "月",
	"火": "火", "火曜日": "火", "火曜": "火", "tuesday": "火", "tue": "火",
	"水": "水", "水曜日": "水", "水曜": "水", "wednesday": "水", "wed": "水",
	"木": "木", "木曜日": "木", "木曜": "木", "thursday": "木", "thu": "木",
	"金": "金", "金曜日": "金", "金曜": "金", "friday": "金", "fri": "金",
	"土": "土", "土曜日": "土", "土曜": "土", "saturday": "土", "sat": "土",
	"日": "日", "日曜日": "日", "日曜": "日", "sunday": "日", "sun": "日",
}

// normalizeDay resolves a configured day name to its canonical token.
// ok is false for unrecognized names.
func normalizeDay(day string) (string, bool) {
	tok, ok := dayTokens[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		tok, ok = dayTokens[strings.TrimSpace(day)]
	}
	return tok, ok
}

func segments(hoursText string) []string {
	var segs []string
	for _, s := range segmentSeparator.Split(hoursText, -1) {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func segmentClosed(seg string) bool {
	for _, marker := range closedMarkers {
		if strings.Contains(seg, marker) {
			return true
		}
	}
	return false
}

// dayOpen reports whether hoursText shows the given canonical day token as
// open: the token appears in at least one segment without a closed marker.
func dayOpen(hoursText, dayToken string) bool {
	for _, seg := range segments(hoursText) {
		if strings.Contains(seg, dayToken) && !segmentClosed(seg) {
			return true
		}
	}
	return false
}

// anyDayOpen reports whether at least one of the configured days is open.
// Unrecognized day names are ignored; when none of the names are
// recognized the check passes (nothing to enforce).
func anyDayOpen(hoursText string, days []string) bool {
	checked := false
	for _, day := range days {
		tok, ok := normalizeDay(day)
		if !ok {
			continue
		}
		checked = true
		if dayOpen(hoursText, tok) {
			return true
		}
	}
	return !checked
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// openAt reports whether hoursText shows the target clock time as open on
// any of the configured days. Segments not matching a configured day are
// skipped when days are configured. A window whose close is at or before
// its open spans midnight: the time matches when it is at or after open OR
// before close.
func openAt(hoursText string, days []string, clock string) bool {
	target, ok := parseClock(clock)
	if !ok {
		return false
	}

	var tokens []string
	for _, day := range days {
		if tok, ok := normalizeDay(day); ok {
			tokens = append(tokens, tok)
		}
	}

	for _, seg := range segments(hoursText) {
		if len(tokens) > 0 && !segmentMatchesDay(seg, tokens) {
			continue
		}
		if segmentClosed(seg) {
			continue
		}
		m := timeBody.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		openH, _ := strconv.Atoi(m[1])
		openM, _ := strconv.Atoi(m[2])
		closeH, _ := strconv.Atoi(m[3])
		closeM, _ := strconv.Atoi(m[4])
		opens := openH*60 + openM
		closes := closeH*60 + closeM

		if closes > opens {
			if target >= opens && target < closes {
				return true
			}
		} else {
			// Spans midnight.
			if target >= opens || target < closes {
				return true
			}
		}
	}
	return false
}

func segmentMatchesDay(seg string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(seg, tok) {
			return true
		}
	}
	return false
}
