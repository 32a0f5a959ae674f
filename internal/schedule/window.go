// Package schedule evaluates free-text daily pickup-window descriptors
// such as "4:00 PM - 8:00 PM" against a point in time.
//
// Descriptors are vendor data entry and arrive in whatever shape the vendor
// typed: inconsistent case, stray whitespace, a hyphen, an en-dash or the
// word "to" (or "a") between the bounds. The evaluator is deliberately
// fail-open: anything it cannot confidently parse counts as an open window,
// so a typo never silently blocks sales. Callers that care about why a
// verdict was reached get a diagnostic reason alongside it.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Verdict is the result of evaluating a descriptor at a point in time.
type Verdict struct {
	Available bool
	Reason    string
}

var (
	// Separators between the start and end bound: hyphen, en-dash, em-dash,
	// or the standalone words "to" / "a".
	separatorRe = regexp.MustCompile(`\s*(?:–|—|-|\bto\b|\ba\b)\s*`)

	// One bound: hour, optional minutes, meridiem marker.
	boundRe = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)\s*$`)
)

// Evaluate reports whether now falls inside the daily window described by
// descriptor. It is pure: the current time is injected, never read from an
// ambient clock, and it never returns an error.
func Evaluate(descriptor string, now time.Time) Verdict {
	text := strings.ToLower(strings.TrimSpace(descriptor))
	if text == "" {
		return Verdict{Available: true, Reason: "no schedule set"}
	}

	parts := separatorRe.Split(text, -1)
	bounds := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			bounds = append(bounds, p)
		}
	}
	if len(bounds) < 2 {
		return Verdict{Available: true, Reason: fmt.Sprintf("unparseable schedule %q", descriptor)}
	}

	start, ok := parseBound(bounds[0])
	if !ok {
		return Verdict{Available: true, Reason: fmt.Sprintf("unparseable start time %q", bounds[0])}
	}
	end, ok := parseBound(bounds[1])
	if !ok {
		return Verdict{Available: true, Reason: fmt.Sprintf("unparseable end time %q", bounds[1])}
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	if end >= start {
		// Normal same-day window, bounds inclusive.
		if nowMinutes >= start && nowMinutes <= end {
			return Verdict{Available: true, Reason: "within pickup window"}
		}
		return Verdict{Available: false, Reason: fmt.Sprintf("outside pickup window %q", descriptor)}
	}

	// Window crosses midnight.
	if nowMinutes >= start || nowMinutes <= end {
		return Verdict{Available: true, Reason: "within overnight pickup window"}
	}
	return Verdict{Available: false, Reason: fmt.Sprintf("outside overnight pickup window %q", descriptor)}
}

// parseBound converts one window bound ("4 pm", "11:30 am") to minutes since
// midnight using 12-hour arithmetic. The bool is false when the bound cannot
// be parsed or its fields are out of range.
func parseBound(text string) (int, bool) {
	m := boundRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}

	minutes := 0
	if m[2] != "" {
		minutes, err = strconv.Atoi(m[2])
		if err != nil || minutes > 59 {
			return 0, false
		}
	}

	// 12 AM is midnight, 12 PM is noon.
	if hour == 12 {
		hour = 0
	}
	if m[3] == "pm" {
		hour += 12
	}

	return hour*60 + minutes, true
}
