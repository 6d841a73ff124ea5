package service

import (
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

// Grid resolution and fixed block durations, in minutes. Lunch and prep are
// system constants; only their start times (or flexible placement) vary.
const (
	SlotMinutes  = 30
	LunchMinutes = 60
	PrepMinutes  = 60
)

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayLookup = func() map[string]string {
	m := make(map[string]string, len(weekdayNames))
	for _, name := range weekdayNames {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// canonicalDay normalises a weekday name to its canonical casing.
func canonicalDay(raw string) (string, bool) {
	name, ok := weekdayLookup[strings.ToLower(strings.TrimSpace(raw))]
	return name, ok
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return hour*60 + minute, nil
}

// FormatClock converts minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WorkingWeek is the discretised schedulable window: the ordered working days
// plus the daily [Start,End) interval in minutes since midnight. The grid is
// anchored at Start in SlotMinutes steps.
type WorkingWeek struct {
	Days  []string
	Start int
	End   int
}

// BuildWorkingWeek validates the configured days and hours and returns the
// grid. Unknown day names, an empty day set and start >= end are
// configuration errors.
func BuildWorkingWeek(days []string, startTime, endTime string) (*WorkingWeek, error) {
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConfig, "at least one working day is required")
	}
	seen := make(map[string]bool, len(days))
	ordered := make([]string, 0, len(days))
	for _, raw := range days {
		name, ok := canonicalDay(raw)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("unknown weekday name %q", raw))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid working hours start time")
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid working hours end time")
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrConfig, "working hours start must be before end")
	}

	return &WorkingWeek{Days: ordered, Start: start, End: end}, nil
}

// HasDay reports whether the named day is part of the working week.
func (w *WorkingWeek) HasDay(day string) bool {
	return w.DayIndex(day) >= 0
}

// DayIndex returns the position of the day in configured order, or -1.
func (w *WorkingWeek) DayIndex(day string) int {
	for i, name := range w.Days {
		if name == day {
			return i
		}
	}
	return -1
}

// SlotCount is the number of whole grid slots in one working day.
func (w *WorkingWeek) SlotCount() int {
	return (w.End - w.Start) / SlotMinutes
}

// snapDown aligns a time to the grid slot boundary at or before it.
func (w *WorkingWeek) snapDown(t int) int {
	if t <= w.Start {
		return w.Start
	}
	return w.Start + (t-w.Start)/SlotMinutes*SlotMinutes
}

// snapUp aligns a time to the grid slot boundary at or after it, capped at the
// end of the working day.
func (w *WorkingWeek) snapUp(t int) int {
	if t >= w.End {
		return w.End
	}
	offset := t - w.Start
	snapped := w.Start + (offset+SlotMinutes-1)/SlotMinutes*SlotMinutes
	if snapped > w.End {
		return w.End
	}
	return snapped
}

// roundUpToSlot rounds a positive duration up to the nearest grid multiple.
func roundUpToSlot(minutes int) int {
	return (minutes + SlotMinutes - 1) / SlotMinutes * SlotMinutes
}
