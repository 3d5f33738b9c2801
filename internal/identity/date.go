package identity

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"salonops-backend/internal/domain"
)

var (
	dateOnlyRe = regexp.MustCompile(`^(\d{1,2})[/\-\s]?(\d{1,2})[/\-\s]?(\d{2}(?:\d{2})?)$`)
	dateTimeRe = regexp.MustCompile(`^(\d{1,2})[/\-\s]?(\d{1,2})[/\-\s]?(\d{2}(?:\d{2})?)\s?(\d{1,2}):(\d{1,2})$`)
)

// ParseFlexibleDate parses day-first dates with /, -, space or no delimiter
// and 2- or 4-digit years; with withTime it additionally requires hh:mm.
// Two-digit years resolve to the nearest century (at most 50 years ahead).
func ParseFlexibleDate(s string, withTime bool) (time.Time, error) {
	re := dateOnlyRe
	if withTime {
		re = dateTimeRe
	}
	m := re.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		if withTime {
			return time.Time{}, domain.Validationf("invalid date/time format %q", s)
		}
		return time.Time{}, domain.Validationf("invalid date format %q", s)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		current := time.Now().Year()
		year += current / 100 * 100
		if year > current+50 {
			year -= 100
		}
	}

	hour, minute := 0, 0
	if withTime {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	// time.Date normalizes out-of-range components; reject that silently
	// shifted result.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, domain.Validationf("invalid date %q: day, month or time out of range", s)
	}
	return t, nil
}
