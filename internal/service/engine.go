package service

import (
	"fmt"
	"strings"

	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

// placedSession is a committed subject session covering exactly the demanded
// duration for every participating student.
type placedSession struct {
	students []string
	subject  string
	day      string
	start    int
	end      int
}

// reqShortfall accumulates the unmet remainder of one requirement. All failed
// units of a requirement coalesce here so the caller sees a single conflict
// with a cumulative shortfall.
type reqShortfall struct {
	kind     demandKind
	students []string
	subject  string
	minutes  int
	days     []string
	short    int
	needed   int
}

// allocationEngine greedily commits demand units against per-student
// occupancy grids. There is no backtracking across units: a placed unit stays
// placed, which keeps runtime linear in units x days x slots.
type allocationEngine struct {
	cfg        *scheduleConfig
	occ        map[string]*occupancy
	sessions   []placedSession
	prepPlaced map[string]interval
	daysUsed   map[int]map[string]bool
	shortfalls []*reqShortfall
	byReq      map[int]*reqShortfall
}

func newAllocationEngine(cfg *scheduleConfig) *allocationEngine {
	e := &allocationEngine{
		cfg:        cfg,
		occ:        make(map[string]*occupancy, len(cfg.students)),
		prepPlaced: make(map[string]interval),
		daysUsed:   make(map[int]map[string]bool),
		byReq:      make(map[int]*reqShortfall),
	}
	for _, student := range cfg.students {
		occ := newOccupancy(cfg.week)
		for _, day := range cfg.week.Days {
			occ.Block(day, cfg.lunchStart, cfg.lunchStart+LunchMinutes)
			if cfg.prep != nil && !cfg.prep.flexible {
				occ.Block(day, cfg.prep.start, cfg.prep.start+PrepMinutes)
			}
		}
		for _, blocked := range student.blocked {
			occ.Block(blocked.day, blocked.start, blocked.end)
		}
		e.occ[student.name] = occ
	}
	return e
}

// run places every demand unit or records its shortfall. Flexible prep blocks
// are scheduled ahead of all subject units, one shared block per working day.
func (e *allocationEngine) run(units []demandUnit) error {
	queue := units
	if e.cfg.prep != nil && e.cfg.prep.flexible {
		prepUnits := make([]demandUnit, 0, len(e.cfg.week.Days))
		for i, day := range e.cfg.week.Days {
			prepUnits = append(prepUnits, demandUnit{
				kind:     demandPrep,
				students: e.cfg.studentNames(),
				day:      day,
				duration: PrepMinutes,
				reqID:    -(i + 1),
			})
		}
		queue = append(prepUnits, queue...)
	}

	for _, unit := range queue {
		placed, err := e.place(unit)
		if err != nil {
			return err
		}
		if !placed {
			e.recordShortfall(unit)
		}
	}
	return nil
}

// place searches the unit's candidate days in configured order and commits
// the first fitting range: earliest day, earliest start. The session covers
// exactly the demanded duration, never the whole free interval.
func (e *allocationEngine) place(unit demandUnit) (bool, error) {
	var candidates []string
	if unit.day != "" {
		if !e.cfg.week.HasDay(unit.day) {
			return false, nil
		}
		candidates = []string{unit.day}
	} else {
		for _, day := range e.cfg.week.Days {
			if e.daysUsed[unit.reqID][day] {
				continue
			}
			candidates = append(candidates, day)
		}
	}

	for _, day := range candidates {
		free := e.freeForAll(unit.students, day)
		for _, f := range free {
			if f.length() < unit.duration {
				continue
			}
			if err := e.commit(unit, day, f.start); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// freeForAll intersects the free intervals of every participant on one day.
func (e *allocationEngine) freeForAll(students []string, day string) []interval {
	free := e.occ[students[0]].FreeIntervals(day)
	for _, name := range students[1:] {
		free = intersectIntervals(free, e.occ[name].FreeIntervals(day))
		if len(free) == 0 {
			break
		}
	}
	return free
}

func (e *allocationEngine) commit(unit demandUnit, day string, start int) error {
	end := start + unit.duration
	for _, name := range unit.students {
		if err := e.occ[name].Reserve(day, start, end); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "allocation invariant violated")
		}
	}
	switch unit.kind {
	case demandPrep:
		e.prepPlaced[day] = interval{start: start, end: end}
	default:
		e.sessions = append(e.sessions, placedSession{
			students: unit.students,
			subject:  unit.subject,
			day:      day,
			start:    start,
			end:      end,
		})
		if unit.kind == demandWeekly {
			if e.daysUsed[unit.reqID] == nil {
				e.daysUsed[unit.reqID] = make(map[string]bool)
			}
			e.daysUsed[unit.reqID][day] = true
		}
	}
	return nil
}

func (e *allocationEngine) recordShortfall(unit demandUnit) {
	sf, ok := e.byReq[unit.reqID]
	if !ok {
		sf = &reqShortfall{
			kind:     unit.kind,
			students: unit.students,
			subject:  unit.subject,
			needed:   unit.needed,
		}
		e.byReq[unit.reqID] = sf
		e.shortfalls = append(e.shortfalls, sf)
	}
	switch unit.kind {
	case demandDaily:
		sf.minutes += unit.duration
		sf.days = append(sf.days, unit.day)
	case demandWeekly:
		sf.short++
	case demandPrep:
		sf.days = append(sf.days, unit.day)
	}
}

// conflicts renders the coalesced shortfalls in first-failure order.
func (e *allocationEngine) conflicts() []string {
	out := make([]string, 0, len(e.shortfalls))
	for _, sf := range e.shortfalls {
		who := strings.Join(sf.students, ", ")
		switch sf.kind {
		case demandDaily:
			out = append(out, fmt.Sprintf("%s - %s: short %d minutes on %s", who, sf.subject, sf.minutes, strings.Join(sf.days, ", ")))
		case demandWeekly:
			out = append(out, fmt.Sprintf("%s - %s: short %d of %d weekly sessions", who, sf.subject, sf.short, sf.needed))
		case demandPrep:
			out = append(out, fmt.Sprintf("prep time could not be placed on %s", strings.Join(sf.days, ", ")))
		}
	}
	return out
}
