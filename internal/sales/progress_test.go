package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"keyflow-api-server/internal/models"
)

func day(date string, sales, leads int, worked bool) models.DailyActivity {
	return models.DailyActivity{
		Date:        date,
		Sales:       sales,
		LeadsWalkIn: leads,
		Worked:      worked,
	}
}

func TestComputeProgressNoGoal(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	activities := []models.DailyActivity{
		day("2025-06-28", 2, 5, true),
		day("2025-06-29", 0, 0, false),
	}

	p := ComputeProgress(nil, activities, 2025, now)

	assert.Nil(t, p.Goal)
	assert.Equal(t, 2, p.TotalSales)
	assert.Equal(t, 5, p.TotalLeads)
	assert.Equal(t, 1, p.DaysWorked)
	assert.Equal(t, 1, p.DaysOff)
	assert.Equal(t, 0, p.SalesNeededRemaining)
	assert.Equal(t, 100.0, p.GoalAchievementProbability)
	assert.True(t, p.OnTrack)
}

func TestComputeProgressTotals(t *testing.T) {
	activities := []models.DailyActivity{
		{Date: "2025-03-01", Worked: true, LeadsWalkIn: 1, LeadsPhone: 2, LeadsInternet: 3, Writeups: 4, Sales: 2, AppointmentsScheduled: 5},
		{Date: "2025-03-02", Worked: true, LeadsWalkIn: 2, Writeups: 1, Sales: 1, AppointmentsScheduled: 1},
	}
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	p := ComputeProgress(nil, activities, 2025, now)

	assert.Equal(t, 8, p.TotalLeads)
	assert.Equal(t, 5, p.TotalWriteups)
	assert.Equal(t, 3, p.TotalSales)
	assert.Equal(t, 6, p.TotalAppointments)
	assert.Equal(t, 2, p.DaysWorked)
}

func TestComputeProgressDaysElapsed(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	p := ComputeProgress(nil, nil, 2025, now)
	assert.Equal(t, 10, p.DaysElapsed)
	// 354.5 days to Dec 31 truncate to 354.
	assert.Equal(t, 354, p.DaysRemaining)

	past := ComputeProgress(nil, nil, 2024, now)
	assert.Equal(t, 365, past.DaysElapsed)
	assert.Equal(t, 0, past.DaysRemaining)

	future := ComputeProgress(nil, nil, 2026, now)
	assert.Equal(t, 0, future.DaysElapsed)
	assert.Equal(t, 365, future.DaysRemaining)
}

func TestComputeProgressAgainstGoal(t *testing.T) {
	goal := &models.SalesGoal{UserID: "u1", Year: 2025, YearlySalesTarget: 100}
	// Exactly on pace: 10 sales in the first 36.5 days would be on track; use
	// a comfortable surplus instead.
	activities := []models.DailyActivity{}
	for i := 1; i <= 20; i++ {
		activities = append(activities, day("2025-01-02", 1, 0, true))
	}
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	p := ComputeProgress(goal, activities, 2025, now)

	assert.Equal(t, 20, p.TotalSales)
	assert.Equal(t, 80, p.SalesNeededRemaining)
	assert.Equal(t, 31, p.DaysElapsed)
	assert.True(t, p.OnTrack)
	assert.Equal(t, 100.0, p.GoalAchievementProbability)
	assert.Equal(t, 1.0, p.CurrentPacePerDay)
	assert.Equal(t, 365, p.ProjectedAnnualSales)
}

func TestComputeProgressBehindPace(t *testing.T) {
	goal := &models.SalesGoal{UserID: "u1", Year: 2025, YearlySalesTarget: 365}
	activities := []models.DailyActivity{day("2025-01-05", 5, 0, true)}
	// 10 days in, expected 10 sales, have 5.
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	p := ComputeProgress(goal, activities, 2025, now)

	assert.False(t, p.OnTrack)
	assert.Equal(t, 50.0, p.GoalAchievementProbability)
	assert.Equal(t, 360, p.SalesNeededRemaining)
}

func TestComputeProgressFutureYearWithTarget(t *testing.T) {
	goal := &models.SalesGoal{UserID: "u1", Year: 2027, YearlySalesTarget: 50}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	p := ComputeProgress(goal, nil, 2027, now)

	assert.Equal(t, 0, p.DaysElapsed)
	assert.Equal(t, 0.0, p.GoalAchievementProbability)
	// Zero days elapsed means the linear expectation is zero, which any total
	// meets.
	assert.True(t, p.OnTrack)
}

func TestComputeProgressWeeklyMonthlyNeeded(t *testing.T) {
	goal := &models.SalesGoal{UserID: "u1", Year: 2025, YearlySalesTarget: 120}
	// Late in the year with most of the goal outstanding.
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	p := ComputeProgress(goal, nil, 2025, now)

	assert.Equal(t, 120, p.SalesNeededRemaining)
	assert.Equal(t, 30, p.DaysRemaining)
	// 120 needed over ~4.29 weeks and exactly one month.
	assert.InDelta(t, 28.0, p.WeeklySalesNeeded, 0.1)
	assert.Equal(t, 120.0, p.MonthlySalesNeeded)
}
