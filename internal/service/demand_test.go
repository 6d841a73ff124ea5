package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorplan-api/internal/dto"
	appErrors "github.com/tutorhive/tutorplan-api/pkg/errors"
)

func baseRequest() dto.GenerateScheduleRequest {
	return dto.GenerateScheduleRequest{
		WorkingHours: dto.WorkingHoursRequest{
			Days:      []string{"Monday", "Tuesday", "Wednesday"},
			StartTime: "09:00",
			EndTime:   "17:00",
		},
		LunchTime: "12:00",
		Students: []dto.StudentConfigRequest{
			{
				Name: "Alice",
				Subjects: []dto.SubjectRequirementRequest{
					{Name: "Math", ConstraintType: "daily", DailyMinutes: 60},
				},
			},
		},
	}
}

func TestBuildScheduleConfig(t *testing.T) {
	cfg, err := buildScheduleConfig(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday"}, cfg.week.Days)
	assert.Equal(t, 12*60, cfg.lunchStart)
	assert.Nil(t, cfg.prep)
	require.Len(t, cfg.students, 1)
	assert.Equal(t, "Alice", cfg.students[0].name)
	require.Len(t, cfg.students[0].subjects, 1)
	assert.True(t, cfg.students[0].subjects[0].daily)
	assert.Equal(t, 60, cfg.students[0].subjects[0].dailyMinutes)
}

func TestBuildScheduleConfigRejectsBadInput(t *testing.T) {
	req := baseRequest()
	req.Students = append(req.Students, req.Students[0])
	_, err := buildScheduleConfig(req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfig.Code, appErrors.FromError(err).Code)

	req = baseRequest()
	req.LunchTime = "25:00"
	_, err = buildScheduleConfig(req)
	require.Error(t, err)

	req = baseRequest()
	req.Students[0].BlockedTimes = []dto.BlockedIntervalRequest{{Day: "Moonday", Start: "10:00", End: "11:00"}}
	_, err = buildScheduleConfig(req)
	require.Error(t, err)

	req = baseRequest()
	req.Students[0].BlockedTimes = []dto.BlockedIntervalRequest{{Day: "Monday", Start: "11:00", End: "10:00"}}
	_, err = buildScheduleConfig(req)
	require.Error(t, err)

	req = baseRequest()
	req.Students[0].Subjects[0] = dto.SubjectRequirementRequest{Name: "Math", ConstraintType: "daily"}
	_, err = buildScheduleConfig(req)
	require.Error(t, err)

	req = baseRequest()
	req.Students[0].Subjects[0] = dto.SubjectRequirementRequest{Name: "Math", ConstraintType: "hourly"}
	_, err = buildScheduleConfig(req)
	require.Error(t, err)

	req = baseRequest()
	req.PrepTime = &dto.PrepTimeRequest{Mode: "sometimes"}
	_, err = buildScheduleConfig(req)
	require.Error(t, err)
}

func TestNormalizeDailyBeforeWeeklyLongerFirst(t *testing.T) {
	req := baseRequest()
	req.Students[0].Subjects = []dto.SubjectRequirementRequest{
		{Name: "English", ConstraintType: "weekly", WeeklyDays: 2, WeeklyMinutesPerSession: 90},
		{Name: "Math", ConstraintType: "daily", DailyMinutes: 45},
	}
	cfg, err := buildScheduleConfig(req)
	require.NoError(t, err)

	units := normalize(cfg)
	// daily: one unit per working day rounded up to the grid; weekly: one per session
	require.Len(t, units, 5)
	for _, unit := range units[:3] {
		assert.Equal(t, demandDaily, unit.kind)
		assert.Equal(t, "Math", unit.subject)
		assert.Equal(t, 60, unit.duration)
		assert.NotEmpty(t, unit.day)
	}
	for _, unit := range units[3:] {
		assert.Equal(t, demandWeekly, unit.kind)
		assert.Equal(t, "English", unit.subject)
		assert.Equal(t, 90, unit.duration)
		assert.Empty(t, unit.day)
		assert.Equal(t, 2, unit.needed)
	}
}

func TestNormalizeLongerDurationFirstWithinTier(t *testing.T) {
	req := baseRequest()
	req.Students[0].Subjects = []dto.SubjectRequirementRequest{
		{Name: "Short", ConstraintType: "weekly", WeeklyDays: 1, WeeklyMinutesPerSession: 30},
		{Name: "Long", ConstraintType: "weekly", WeeklyDays: 1, WeeklyMinutesPerSession: 120},
	}
	cfg, err := buildScheduleConfig(req)
	require.NoError(t, err)

	units := normalize(cfg)
	require.Len(t, units, 2)
	assert.Equal(t, "Long", units[0].subject)
	assert.Equal(t, "Short", units[1].subject)
}

func TestGroupRequirementsMergesMutualOverlap(t *testing.T) {
	req := baseRequest()
	shared := dto.SubjectRequirementRequest{Name: "Math", ConstraintType: "daily", DailyMinutes: 60}
	req.Students = []dto.StudentConfigRequest{
		{Name: "Alice", CanOverlap: []string{"Bob"}, Subjects: []dto.SubjectRequirementRequest{shared}},
		{Name: "Bob", CanOverlap: []string{"Alice"}, Subjects: []dto.SubjectRequirementRequest{shared}},
		{Name: "Carol", Subjects: []dto.SubjectRequirementRequest{shared}},
	}
	cfg, err := buildScheduleConfig(req)
	require.NoError(t, err)

	groups := groupRequirements(cfg)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Alice", "Bob"}, groups[0].students)
	assert.Equal(t, []string{"Carol"}, groups[1].students)
}

func TestGroupRequirementsOneSidedOverlapStaysSeparate(t *testing.T) {
	req := baseRequest()
	shared := dto.SubjectRequirementRequest{Name: "Math", ConstraintType: "daily", DailyMinutes: 60}
	req.Students = []dto.StudentConfigRequest{
		{Name: "Alice", CanOverlap: []string{"Bob"}, Subjects: []dto.SubjectRequirementRequest{shared}},
		{Name: "Bob", Subjects: []dto.SubjectRequirementRequest{shared}},
	}
	cfg, err := buildScheduleConfig(req)
	require.NoError(t, err)

	groups := groupRequirements(cfg)
	require.Len(t, groups, 2)
}

func TestGroupRequirementsDifferentDemandStaysSeparate(t *testing.T) {
	req := baseRequest()
	req.Students = []dto.StudentConfigRequest{
		{Name: "Alice", CanOverlap: []string{"Bob"}, Subjects: []dto.SubjectRequirementRequest{
			{Name: "Math", ConstraintType: "daily", DailyMinutes: 60},
		}},
		{Name: "Bob", CanOverlap: []string{"Alice"}, Subjects: []dto.SubjectRequirementRequest{
			{Name: "Math", ConstraintType: "daily", DailyMinutes: 90},
		}},
	}
	cfg, err := buildScheduleConfig(req)
	require.NoError(t, err)

	groups := groupRequirements(cfg)
	require.Len(t, groups, 2)
}
