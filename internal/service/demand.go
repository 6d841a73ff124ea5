package service

import (
	"fmt"
	"sort"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

// scheduleConfig is the parsed, validated input for one engine run.
type scheduleConfig struct {
	week       *WorkingWeek
	lunchStart int
	prep       *prepConfig
	students   []studentConfig
}

// prepConfig selects the prep block strategy. A nil prepConfig disables prep.
type prepConfig struct {
	flexible bool
	start    int
}

type blockedInterval struct {
	day   string
	start int
	end   int
	label string
}

type subjectRequirement struct {
	name                 string
	daily                bool
	dailyMinutes         int
	weeklySessions       int
	weeklySessionMinutes int
}

type studentConfig struct {
	name       string
	blocked    []blockedInterval
	canOverlap map[string]bool
	subjects   []subjectRequirement
}

// buildScheduleConfig converts the transport request into engine input.
// Malformed values fail the whole invocation with a CONFIG_ERROR before any
// placement runs.
func buildScheduleConfig(req dto.GenerateScheduleRequest) (*scheduleConfig, error) {
	week, err := BuildWorkingWeek(req.WorkingHours.Days, req.WorkingHours.StartTime, req.WorkingHours.EndTime)
	if err != nil {
		return nil, err
	}

	lunchStart, err := ParseClock(req.LunchTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid lunch time")
	}

	var prep *prepConfig
	if req.PrepTime != nil {
		switch req.PrepTime.Mode {
		case "flexible":
			prep = &prepConfig{flexible: true}
		case "fixed":
			start, err := ParseClock(req.PrepTime.StartTime)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid prep start time")
			}
			prep = &prepConfig{start: start}
		default:
			return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("unknown prep mode %q", req.PrepTime.Mode))
		}
	}

	cfg := &scheduleConfig{week: week, lunchStart: lunchStart, prep: prep}

	names := make(map[string]bool, len(req.Students))
	for _, student := range req.Students {
		if names[student.Name] {
			return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("duplicate student name %q", student.Name))
		}
		names[student.Name] = true

		sc := studentConfig{name: student.Name, canOverlap: make(map[string]bool, len(student.CanOverlap))}
		for _, peer := range student.CanOverlap {
			sc.canOverlap[peer] = true
		}

		for _, bt := range student.BlockedTimes {
			day, ok := canonicalDay(bt.Day)
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("unknown weekday name %q in blocked time for %s", bt.Day, student.Name))
			}
			start, err := ParseClock(bt.Start)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid blocked start for %s", student.Name))
			}
			end, err := ParseClock(bt.End)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid blocked end for %s", student.Name))
			}
			if start >= end {
				return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("blocked time for %s on %s must start before it ends", student.Name, day))
			}
			sc.blocked = append(sc.blocked, blockedInterval{day: day, start: start, end: end, label: bt.Label})
		}

		for _, subject := range student.Subjects {
			requirement := subjectRequirement{name: subject.Name}
			switch subject.ConstraintType {
			case "daily":
				if subject.DailyMinutes <= 0 {
					return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("%s/%s: daily requirement needs positive dailyMinutes", student.Name, subject.Name))
				}
				requirement.daily = true
				requirement.dailyMinutes = subject.DailyMinutes
			case "weekly":
				if subject.WeeklyDays <= 0 || subject.WeeklyMinutesPerSession <= 0 {
					return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("%s/%s: weekly requirement needs positive weeklyDays and weeklyMinutesPerSession", student.Name, subject.Name))
				}
				requirement.weeklySessions = subject.WeeklyDays
				requirement.weeklySessionMinutes = subject.WeeklyMinutesPerSession
			default:
				return nil, appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("%s/%s: unknown constraint type %q", student.Name, subject.Name, subject.ConstraintType))
			}
			sc.subjects = append(sc.subjects, requirement)
		}

		cfg.students = append(cfg.students, sc)
	}

	return cfg, nil
}

// mutualOverlap reports whether two students both list each other as
// overlap-compatible. Sharing is strictly bidirectional.
func (c *scheduleConfig) mutualOverlap(a, b string) bool {
	var ca, cb map[string]bool
	for _, s := range c.students {
		switch s.name {
		case a:
			ca = s.canOverlap
		case b:
			cb = s.canOverlap
		}
	}
	return ca[b] && cb[a]
}

func (c *scheduleConfig) studentNames() []string {
	names := make([]string, 0, len(c.students))
	for _, s := range c.students {
		names = append(names, s.name)
	}
	return names
}

// demandKind orders placement tiers: prep blocks first, then fixed-day daily
// units, then free-day weekly units.
type demandKind int

const (
	demandPrep demandKind = iota
	demandDaily
	demandWeekly
)

// demandUnit is one atomic placeable chunk of required time. Units from the
// same requirement share a reqID, used for weekly day-spread and for
// coalescing shortfalls into a single conflict.
type demandUnit struct {
	kind     demandKind
	students []string
	subject  string
	day      string // fixed day for prep/daily units, empty for weekly
	duration int    // minutes, always a grid multiple
	reqID    int
	needed   int // sessions wanted by the whole requirement (weekly)
	order    int
}

// requirementGroup is an N-ary merge of identical requirements across
// mutually overlap-compatible students.
type requirementGroup struct {
	students    []string
	requirement subjectRequirement
	reqID       int
}

func (g *requirementGroup) key() string {
	r := g.requirement
	if r.daily {
		return fmt.Sprintf("daily|%s|%d", r.name, r.dailyMinutes)
	}
	return fmt.Sprintf("weekly|%s|%d|%d", r.name, r.weeklySessions, r.weeklySessionMinutes)
}

// normalize converts the heterogeneous requirements into a priority-ordered
// queue of demand units: fixed-day daily units before free-day weekly units,
// longer durations first within a tier, input order as the final tie-break.
func normalize(cfg *scheduleConfig) []demandUnit {
	groups := groupRequirements(cfg)

	var units []demandUnit
	for order, group := range groups {
		r := group.requirement
		if r.daily {
			duration := roundUpToSlot(r.dailyMinutes)
			for _, day := range cfg.week.Days {
				units = append(units, demandUnit{
					kind:     demandDaily,
					students: group.students,
					subject:  r.name,
					day:      day,
					duration: duration,
					reqID:    group.reqID,
					order:    order,
				})
			}
			continue
		}
		duration := roundUpToSlot(r.weeklySessionMinutes)
		for i := 0; i < r.weeklySessions; i++ {
			units = append(units, demandUnit{
				kind:     demandWeekly,
				students: group.students,
				subject:  r.name,
				duration: duration,
				reqID:    group.reqID,
				needed:   r.weeklySessions,
				order:    order,
			})
		}
	}

	sort.SliceStable(units, func(i, j int) bool {
		if units[i].kind != units[j].kind {
			return units[i].kind < units[j].kind
		}
		if units[i].duration != units[j].duration {
			return units[i].duration > units[j].duration
		}
		return units[i].order < units[j].order
	})
	return units
}

// groupRequirements merges identical requirements of mutually
// overlap-compatible students into shared N-ary groups, preserving input
// order for everything else.
func groupRequirements(cfg *scheduleConfig) []*requirementGroup {
	var groups []*requirementGroup
	nextID := 0
	for _, student := range cfg.students {
	subjects:
		for _, requirement := range student.subjects {
			candidate := &requirementGroup{students: []string{student.name}, requirement: requirement}
			for _, group := range groups {
				if group.key() != candidate.key() {
					continue
				}
				compatible := true
				for _, member := range group.students {
					if !cfg.mutualOverlap(member, student.name) {
						compatible = false
						break
					}
				}
				if compatible {
					group.students = append(group.students, student.name)
					continue subjects
				}
			}
			candidate.reqID = nextID
			nextID++
			groups = append(groups, candidate)
		}
	}
	return groups
}
