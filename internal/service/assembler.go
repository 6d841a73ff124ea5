package service

import (
	"fmt"
	"sort"

	"github.com/tutorhive/tutorplan-api/internal/models"
)

var entryTypeRank = map[models.EntryType]int{
	models.EntrySession: 0,
	models.EntryLunch:   1,
	models.EntryPrep:    2,
	models.EntryBlocked: 3,
}

// assemble flattens the engine output into the ordered weekly schedule.
// Blocked entries show the configured intervals clipped to the working
// window, untouched by grid snapping, so the caller sees what was asked for.
func assemble(cfg *scheduleConfig, engine *allocationEngine) models.ScheduleResult {
	entries := make([]models.ScheduleEntry, 0, len(engine.sessions)+2*len(cfg.week.Days))

	for _, s := range engine.sessions {
		entries = append(entries, models.ScheduleEntry{
			Day:      s.day,
			Start:    FormatClock(s.start),
			End:      FormatClock(s.end),
			Type:     models.EntrySession,
			Students: s.students,
			Subject:  s.subject,
		})
	}

	for _, day := range cfg.week.Days {
		entries = append(entries, models.ScheduleEntry{
			Day:   day,
			Start: FormatClock(cfg.lunchStart),
			End:   FormatClock(cfg.lunchStart + LunchMinutes),
			Type:  models.EntryLunch,
			Label: "Lunch",
		})
	}

	if cfg.prep != nil {
		if cfg.prep.flexible {
			for day, iv := range engine.prepPlaced {
				entries = append(entries, prepEntry(day, iv.start, iv.end))
			}
		} else {
			for _, day := range cfg.week.Days {
				entries = append(entries, prepEntry(day, cfg.prep.start, cfg.prep.start+PrepMinutes))
			}
		}
	}

	for _, student := range cfg.students {
		for _, b := range student.blocked {
			if !cfg.week.HasDay(b.day) {
				continue
			}
			start := max(b.start, cfg.week.Start)
			end := min(b.end, cfg.week.End)
			if start >= end {
				continue
			}
			entries = append(entries, models.ScheduleEntry{
				Day:      b.day,
				Start:    FormatClock(start),
				End:      FormatClock(end),
				Type:     models.EntryBlocked,
				Students: []string{student.name},
				Label:    b.label,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if ai, bi := cfg.week.DayIndex(a.Day), cfg.week.DayIndex(b.Day); ai != bi {
			return ai < bi
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if ar, br := entryTypeRank[a.Type], entryTypeRank[b.Type]; ar != br {
			return ar < br
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return firstStudent(a.Students) < firstStudent(b.Students)
	})

	conflicts := engine.conflicts()
	result := models.ScheduleResult{
		Schedule:  entries,
		Success:   len(conflicts) == 0,
		Conflicts: conflicts,
	}
	if result.Success {
		result.Message = "All requirements met"
	} else {
		result.Message = fmt.Sprintf("%d requirements not fully met", len(conflicts))
	}
	return result
}

func prepEntry(day string, start, end int) models.ScheduleEntry {
	return models.ScheduleEntry{
		Day:   day,
		Start: FormatClock(start),
		End:   FormatClock(end),
		Type:  models.EntryPrep,
		Label: "Prep Time",
	}
}

func firstStudent(students []string) string {
	if len(students) == 0 {
		return ""
	}
	return students[0]
}
