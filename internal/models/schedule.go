package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// EntryType tags a schedule entry for display and export.
type EntryType string

const (
	EntrySession EntryType = "session"
	EntryLunch   EntryType = "lunch"
	EntryPrep    EntryType = "prep"
	EntryBlocked EntryType = "blocked"
)

// ScheduleEntry is one row of the assembled weekly timetable. Times are
// "HH:MM" clock strings; Students is populated for sessions only and lists
// every participant of a shared session.
type ScheduleEntry struct {
	Day      string    `json:"day"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Type     EntryType `json:"type"`
	Students []string  `json:"students,omitempty"`
	Subject  string    `json:"subject,omitempty"`
	Label    string    `json:"label,omitempty"`
}

// ScheduleResult aggregates the assembled timetable with its outcome.
// Success is true iff no requirement was left short.
type ScheduleResult struct {
	Schedule  []ScheduleEntry `json:"schedule"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Conflicts []string        `json:"conflicts"`
}

// SavedScheduleStatus represents lifecycle phases for stored timetables.
type SavedScheduleStatus string

const (
	SavedScheduleStatusDraft    SavedScheduleStatus = "DRAFT"
	SavedScheduleStatusArchived SavedScheduleStatus = "ARCHIVED"
)

// SavedSchedule is a persisted, versioned timetable kept under a
// caller-chosen name. Result holds the serialized ScheduleResult.
type SavedSchedule struct {
	ID        string              `db:"id" json:"id"`
	Name      string              `db:"name" json:"name"`
	Version   int                 `db:"version" json:"version"`
	Status    SavedScheduleStatus `db:"status" json:"status"`
	Success   bool                `db:"success" json:"success"`
	Conflicts int                 `db:"conflicts" json:"conflicts"`
	Result    types.JSONText      `db:"result" json:"result"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"`
}

// Pagination describes list paging metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
