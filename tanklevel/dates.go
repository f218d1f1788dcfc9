package tanklevel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedDate is the result of parsing one raw event date string. When Valid
// is false, Time is the epoch sentinel and DateOnly is empty; comparisons
// against the sentinel naturally fail freshness checks without crashing.
type ParsedDate struct {
	Time     time.Time
	DateOnly string // YYYY-MM-DD, empty when Valid is false
	Valid    bool
}

var (
	isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dmyPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
)

// nativeLayouts are tried last, in order, for anything the two sniffers
// above did not recognize.
var nativeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02 Jan 2006",
}

// ParseEventDate accepts the raw date formats the Elora API and refill
// exports produce: ISO (YYYY-MM-DD, with or without a time part), D/M/YYYY
// with an optional time, then a short list of native layouts. Unparseable
// input degrades to the epoch sentinel; this function never fails loudly
// because a single bad delivery row must not sink a whole tank.
func ParseEventDate(raw string) ParsedDate {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedDate{Time: time.Unix(0, 0).UTC()}
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		if t, err := parseISO(s); err == nil {
			return ParsedDate{Time: t, DateOnly: t.Format("2006-01-02"), Valid: true}
		}
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		if t, err := parseDMY(m); err == nil {
			return ParsedDate{Time: t, DateOnly: t.Format("2006-01-02"), Valid: true}
		}
	}

	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ParsedDate{Time: t.UTC(), DateOnly: t.UTC().Format("2006-01-02"), Valid: true}
		}
	}

	return ParsedDate{Time: time.Unix(0, 0).UTC()}
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO date: %q", s)
}

func parseDMY(m []string) (time.Time, error) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day/month out of range: %s/%s", m[1], m[2])
	}
	hour, minute, sec := 0, 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 becomes 2-3 March); reject
	// anything that moved.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("impossible calendar date: %d/%d/%d", day, month, year)
	}
	return t, nil
}
