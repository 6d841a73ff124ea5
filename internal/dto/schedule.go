package dto

import "github.com/tutorhive/tutorplan-api/internal/models"

// WorkingHoursRequest defines the schedulable window of the week.
type WorkingHoursRequest struct {
	Days      []string `json:"days" validate:"required,min=1,dive,required"`
	StartTime string   `json:"startTime" validate:"required"`
	EndTime   string   `json:"endTime" validate:"required"`
}

// BlockedIntervalRequest is a half-open [start,end) range during which one
// student is unavailable.
type BlockedIntervalRequest struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Label string `json:"label"`
}

// SubjectRequirementRequest captures one subject's time demand for a student.
// Exactly one of the daily/weekly variants applies, selected by ConstraintType.
type SubjectRequirementRequest struct {
	Name                    string `json:"name" validate:"required"`
	ConstraintType          string `json:"constraintType" validate:"required,oneof=daily weekly"`
	DailyMinutes            int    `json:"dailyMinutes" validate:"omitempty,min=1"`
	WeeklyDays              int    `json:"weeklyDays" validate:"omitempty,min=1"`
	WeeklyMinutesPerSession int    `json:"weeklyMinutesPerSession" validate:"omitempty,min=1"`
}

// StudentConfigRequest bundles one student's availability and requirements.
// CanOverlap names students this student may share identical sessions with;
// sharing only takes effect when both sides list each other.
type StudentConfigRequest struct {
	Name         string                      `json:"name" validate:"required"`
	BlockedTimes []BlockedIntervalRequest    `json:"blockedTimes" validate:"omitempty,dive"`
	CanOverlap   []string                    `json:"canOverlap"`
	Subjects     []SubjectRequirementRequest `json:"subjects" validate:"omitempty,dive"`
}

// PrepTimeRequest selects the prep block strategy: a fixed daily start time or
// flexible placement chosen by the engine.
type PrepTimeRequest struct {
	Mode      string `json:"mode" validate:"required,oneof=fixed flexible"`
	StartTime string `json:"startTime" validate:"omitempty"`
}

// GenerateScheduleRequest instructs the engine to build a weekly timetable.
type GenerateScheduleRequest struct {
	WorkingHours WorkingHoursRequest    `json:"workingHours" validate:"required"`
	LunchTime    string                 `json:"lunchTime" validate:"required"`
	PrepTime     *PrepTimeRequest       `json:"prepTime" validate:"omitempty"`
	Students     []StudentConfigRequest `json:"students" validate:"required,min=1,dive"`
}

// GenerateScheduleResponse returns the assembled timetable plus a proposal
// handle the caller can later persist via the save endpoint.
type GenerateScheduleResponse struct {
	ProposalID string                 `json:"proposalId"`
	Schedule   []models.ScheduleEntry `json:"schedule"`
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Conflicts  []string               `json:"conflicts"`
}

// SaveScheduleRequest persists a generated proposal under a name.
type SaveScheduleRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// SavedScheduleQuery filters stored timetables.
type SavedScheduleQuery struct {
	Name string `form:"name" json:"name"`
}

// StudentAvailability mirrors the uploaded availability file shape: a map of
// student name to blocked times.
type StudentAvailability struct {
	BlockedTimes []BlockedIntervalRequest `json:"blocked_times"`
}

// UploadAvailabilityResponse echoes the parsed upload back to the caller.
type UploadAvailabilityResponse struct {
	Students map[string]StudentAvailability `json:"students"`
	Stored   []string                       `json:"stored"`
}
