// Package datetime turns free-form date text typed in chat into timestamps.
package datetime

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical rendering of a normalized timestamp.
const Layout = "2006-01-02 15:04:05"

// assembled components are parsed leniently on width so "5/1" and "9:00" work.
const looseLayout = "2006-1-2 15:4:5"

var (
	ErrNoDate      = errors.New("no date or time found")
	ErrInvalidDate = errors.New("invalid date or time")
)

var relativePattern = regexp.MustCompile(`^(-?)(\d+)([smhDWMY])$`)

func isDateDelimiter(r rune) bool {
	return r == '/' || r == '\\' || r == '-' || r == '.'
}

// splitFlanked splits s on runes matching delim and reports whether it yields
// two or three non-empty parts, i.e. one or two delimiters each flanked by
// other characters.
func splitFlanked(s string, delim func(rune) bool) ([]string, bool) {
	n := 0
	for _, r := range s {
		if delim(r) {
			n++
		}
	}
	if n < 1 || n > 2 {
		return nil, false
	}
	parts := strings.FieldsFunc(s, delim)
	if len(parts) != n+1 {
		return nil, false
	}
	return parts, true
}

type components struct {
	date string
	time string
}

// Normalize interprets text relative to now. Fragments are separated by
// spaces and may be absolute dates (day/month[/year]), absolute times
// (HH:MM[:SS]), the keywords now, tomorrow and yesterday, or relative offsets
// such as 2D, -1W or 90m. Components not given explicitly come from the
// relative offsets when any were applied, otherwise from now's date at
// midnight.
func Normalize(text string, now time.Time) (time.Time, error) {
	var (
		set      components
		modifier = now
		matched  bool
	)

	for _, frag := range strings.Split(text, " ") {
		if frag == "" {
			continue
		}

		dateParts, isDate := splitFlanked(frag, isDateDelimiter)
		timeParts, isTime := splitFlanked(frag, func(r rune) bool { return r == ':' })
		switch {
		case isDate && isTime:
			continue
		case isDate:
			if len(dateParts) == 3 {
				set.date = fmt.Sprintf("%s-%s-%s", dateParts[2], dateParts[1], dateParts[0])
			} else {
				set.date = fmt.Sprintf("%d-%s-%s", now.Year(), dateParts[1], dateParts[0])
			}
			matched = true
			continue
		case isTime:
			set.time = strings.Join(timeParts, ":")
			if len(timeParts) == 2 {
				set.time += ":00"
			}
			matched = true
			continue
		}

		switch strings.ToLower(frag) {
		case "now":
			modifier = modifier.Add(time.Nanosecond)
			matched = true
			continue
		case "tomorrow":
			modifier = modifier.AddDate(0, 0, 1)
			matched = true
			continue
		case "yesterday":
			modifier = modifier.AddDate(0, 0, -1)
			matched = true
			continue
		}

		if m := relativePattern.FindStringSubmatch(frag); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, frag)
			}
			if m[1] == "-" {
				n = -n
			}
			shifted, ok := shift(modifier, n, m[3])
			if !ok {
				return time.Time{}, fmt.Errorf("%w: %q is out of range", ErrInvalidDate, frag)
			}
			modifier = shifted
			matched = true
		}
	}

	if !matched {
		return time.Time{}, ErrNoDate
	}

	if !modifier.Equal(now) {
		if set.date == "" {
			set.date = modifier.Format("2006-01-02")
		}
		if set.time == "" {
			set.time = modifier.Format("15:04:05")
		}
	}
	if set.date == "" {
		set.date = now.Format("2006-01-02")
	}
	if set.time == "" {
		set.time = "00:00:00"
	}

	t, err := time.ParseInLocation(looseLayout, set.date+" "+set.time, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidDate, set.date, set.time)
	}
	return t, nil
}

// maxYear bounds shifted instants to what the canonical layout can render.
const maxYear = 9999

// calendarLimit is the largest magnitude of a calendar shift; anything beyond
// spans more than the renderable years.
var calendarLimit = map[string]int{
	"D": 366 * maxYear,
	"W": 53 * maxYear,
	"M": 12 * maxYear,
	"Y": maxYear,
}

// shift moves t by n units. It reports false when the offset overflows or
// leaves the years the layout can hold.
func shift(t time.Time, n int, unit string) (time.Time, bool) {
	var out time.Time
	switch unit {
	case "s", "m", "h":
		step := time.Second
		switch unit {
		case "m":
			step = time.Minute
		case "h":
			step = time.Hour
		}
		if n > int(math.MaxInt64/step) || n < int(math.MinInt64/step) {
			return t, false
		}
		out = t.Add(time.Duration(n) * step)
	case "D", "W", "M", "Y":
		if limit := calendarLimit[unit]; n > limit || n < -limit {
			return t, false
		}
		switch unit {
		case "D":
			out = t.AddDate(0, 0, n)
		case "W":
			out = t.AddDate(0, 0, 7*n)
		case "M":
			out = t.AddDate(0, n, 0)
		default:
			out = t.AddDate(n, 0, 0)
		}
	default:
		return t, true
	}
	if y := out.Year(); y < 1 || y > maxYear {
		return t, false
	}
	return out, true
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}
