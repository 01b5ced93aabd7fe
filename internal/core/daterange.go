package core

import (
	"fmt"
	"time"
)

// Date range presets offered by the period filter.
const (
	PresetThisMonth = "this-month"
	PresetLastMonth = "last-month"
	PresetThisYear  = "this-year"
	PresetCustom    = "custom"
)

// DateRange is an inclusive YYYY-MM-DD period. The zero value means "no bound".
type DateRange struct {
	Start string
	End   string
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// RangeFor resolves a preset relative to now. Custom ranges use the given
// bounds verbatim and must both parse; unknown presets fall back to this month.
func RangeFor(preset string, now time.Time, customStart, customEnd string) (DateRange, error) {
	y, m, _ := now.Date()
	loc := now.Location()
	switch preset {
	case PresetLastMonth:
		first := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		last := time.Date(y, m, 0, 0, 0, 0, 0, loc)
		return DateRange{first.Format(DateLayout), last.Format(DateLayout)}, nil
	case PresetThisYear:
		return DateRange{
			time.Date(y, time.January, 1, 0, 0, 0, 0, loc).Format(DateLayout),
			time.Date(y, time.December, 31, 0, 0, 0, 0, loc).Format(DateLayout),
		}, nil
	case PresetCustom:
		start, err := time.Parse(DateLayout, customStart)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q", customStart)
		}
		end, err := time.Parse(DateLayout, customEnd)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q", customEnd)
		}
		if end.Before(start) {
			return DateRange{}, fmt.Errorf("end date %s is before start date %s", customEnd, customStart)
		}
		return DateRange{customStart, customEnd}, nil
	default:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
		return DateRange{first.Format(DateLayout), last.Format(DateLayout)}, nil
	}
}
