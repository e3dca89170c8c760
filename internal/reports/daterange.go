package reports

import (
	"errors"
	"fmt"
	"time"
)

// Preset names the supported report windows.
type Preset string

const (
	PresetThisMonth     Preset = "thisMonth"
	PresetLastMonth     Preset = "lastMonth"
	PresetThisQuarter   Preset = "thisQuarter"
	PresetThisYear      Preset = "thisYear"
	PresetFinancialYear Preset = "financialYear"
	PresetCustom        Preset = "custom"
)

// ErrInvalidDateRange indicates an unknown preset or unparsable custom date.
// The resolver rejects these before any report computation starts.
var ErrInvalidDateRange = errors.New("reports: invalid date range")

const customDateLayout = "2006-01-02"

// DateRange is a closed-closed report window. End carries 23:59:59.999 so a
// date-only comparison includes the whole final day.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether t falls inside the window.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Label renders the window for report headings.
func (r DateRange) Label() string {
	return r.Start.Format("02 Jan 2006") + " to " + r.End.Format("02 Jan 2006")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// ResolveRange maps a preset (or custom bounds) onto a concrete window
// relative to now. The financial year runs April through March.
func ResolveRange(preset Preset, customStart, customEnd string, now time.Time) (DateRange, error) {
	switch preset {
	case PresetThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}, nil
	case PresetLastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}, nil
	case PresetThisQuarter:
		quarter := (int(now.Month()) - 1) / 3
		start := time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 3, -1))}, nil
	case PresetThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(1, 0, -1))}, nil
	case PresetFinancialYear:
		year := now.Year()
		if now.Month() < time.April {
			year--
		}
		start := time.Date(year, time.April, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(1, 0, -1))}, nil
	case PresetCustom:
		start, err := time.ParseInLocation(customDateLayout, customStart, now.Location())
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, customStart)
		}
		end, err := time.ParseInLocation(customDateLayout, customEnd, now.Location())
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, customEnd)
		}
		if end.Before(start) {
			return DateRange{}, fmt.Errorf("%w: end before start", ErrInvalidDateRange)
		}
		return DateRange{Start: startOfDay(start), End: endOfDay(end)}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: preset %q", ErrInvalidDateRange, preset)
	}
}
