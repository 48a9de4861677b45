// Package timeparsing turns user-supplied time expressions into instants.
//
// Expressions are tried layer by layer, first match wins:
//  1. Compact duration (+6h, -1d, 2w)
//  2. Absolute timestamp (RFC3339, date-only, "2006-01-02 15:04")
//  3. Natural language (yesterday, last monday, 3 days ago)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactDurationRe matches [+-]?(\d+)([hdwmy]), e.g. +6h, -1d, 3m.
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseCompactDuration applies a compact duration to now. No sign means
// forward in time.
//
// Units: h hours, d days, w weeks, m months, y years.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	sign, amount, unit, err := splitCompact(s)
	if err != nil {
		return time.Time{}, err
	}
	if sign == "-" {
		amount = -amount
	}
	return applyDuration(now, amount, unit), nil
}

func splitCompact(s string) (sign string, amount int, unit string, err error) {
	m := compactDurationRe.FindStringSubmatch(s)
	if m == nil {
		return "", 0, "", fmt.Errorf("not a compact duration: %q", s)
	}
	amount, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", fmt.Errorf("invalid duration amount: %q", m[2])
	}
	return m[1], amount, m[3], nil
}

func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		return base
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}

var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAbsolute parses a timestamp or date. Layouts without a zone are
// interpreted in now's location.
func ParseAbsolute(s string, now time.Time) (time.Time, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an absolute time: %q", s)
}

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseNaturalLanguage parses English phrases like "yesterday",
// "next monday at 2pm" or "3 days ago" relative to now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("not a recognized time expression: %q", s)
	}
	return r.Time, nil
}

// ParseRelativeTime runs every layer in order and returns the first match.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := ParseAbsolute(s, now); err == nil {
		return t, nil
	}
	t, err := ParseNaturalLanguage(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse time %q: use +6h/-7d, YYYY-MM-DD, RFC3339 or phrases like \"last week\"", s)
	}
	return t, nil
}

// ParseSince resolves a lower bound for "created since" filters. An
// unsigned compact duration looks back, so "7d" and "-7d" agree; "+7d"
// still means the future. Other forms follow ParseRelativeTime.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if IsCompactDuration(s) {
		sign, amount, unit, err := splitCompact(s)
		if err != nil {
			return time.Time{}, err
		}
		if sign != "+" {
			amount = -amount
		}
		return applyDuration(now, amount, unit), nil
	}
	return ParseRelativeTime(s, now)
}
