// Package sales derives progress statistics from a year of daily-activity
// rows and an optional yearly goal. Everything here is pure arithmetic; no
// state is persisted.
package sales

import (
	"math"
	"time"

	"keyflow-api-server/internal/models"
)

// Progress is the non-persisted statistics payload.
type Progress struct {
	Goal                       *models.SalesGoal `json:"goal"`
	TotalLeads                 int               `json:"total_leads"`
	TotalWriteups              int               `json:"total_writeups"`
	TotalSales                 int               `json:"total_sales"`
	TotalAppointments          int               `json:"total_appointments"`
	DaysWorked                 int               `json:"days_worked"`
	DaysOff                    int               `json:"days_off"`
	DaysElapsed                int               `json:"days_elapsed"`
	DaysRemaining              int               `json:"days_remaining"`
	SalesNeededRemaining       int               `json:"sales_needed_remaining"`
	WeeklySalesNeeded          float64           `json:"weekly_sales_needed"`
	MonthlySalesNeeded         float64           `json:"monthly_sales_needed"`
	CurrentPacePerDay          float64           `json:"current_pace_per_day"`
	ProjectedAnnualSales       int               `json:"projected_annual_sales"`
	GoalAchievementProbability float64           `json:"goal_achievement_probability"`
	OnTrack                    bool              `json:"on_track"`
}

// ComputeProgress aggregates a user's activity rows for a year against an
// optional goal. A zero (or absent) goal is always on track with probability
// 100; a positive goal with no elapsed days has probability 0.
func ComputeProgress(goal *models.SalesGoal, activities []models.DailyActivity, year int, now time.Time) Progress {
	p := Progress{Goal: goal}

	for _, a := range activities {
		p.TotalLeads += a.LeadsWalkIn + a.LeadsPhone + a.LeadsInternet
		p.TotalWriteups += a.Writeups
		p.TotalSales += a.Sales
		p.TotalAppointments += a.AppointmentsScheduled
		if a.Worked {
			p.DaysWorked++
		} else {
			p.DaysOff++
		}
	}

	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, now.Location())
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, now.Location())
	switch {
	case now.Year() == year:
		p.DaysElapsed = int(now.Sub(yearStart).Hours()/24) + 1
		p.DaysRemaining = int(yearEnd.Sub(now).Hours() / 24)
	case now.Year() > year:
		p.DaysElapsed = 365
		p.DaysRemaining = 0
	default:
		p.DaysElapsed = 0
		p.DaysRemaining = 365
	}

	target := 0
	if goal != nil {
		target = goal.YearlySalesTarget
	}

	p.SalesNeededRemaining = target - p.TotalSales
	if p.SalesNeededRemaining < 0 {
		p.SalesNeededRemaining = 0
	}

	weeksRemaining := math.Max(1, float64(p.DaysRemaining)/7)
	monthsRemaining := math.Max(1, float64(p.DaysRemaining)/30)
	p.WeeklySalesNeeded = round1(float64(p.SalesNeededRemaining) / weeksRemaining)
	p.MonthlySalesNeeded = round1(float64(p.SalesNeededRemaining) / monthsRemaining)

	if p.DaysWorked > 0 {
		pace := float64(p.TotalSales) / float64(p.DaysWorked)
		p.CurrentPacePerDay = round2(pace)
		p.ProjectedAnnualSales = int(pace * 365)
	}

	// Probability heuristic: actual-to-date sales against a linear
	// expected-to-date target, capped to [0, 100].
	switch {
	case target > 0 && p.DaysElapsed > 0:
		expectedByNow := float64(target) / 365 * float64(p.DaysElapsed)
		ratio := float64(p.TotalSales) / expectedByNow
		p.GoalAchievementProbability = round1(math.Min(100, math.Max(0, ratio*100)))
	case target > 0:
		p.GoalAchievementProbability = 0
	default:
		p.GoalAchievementProbability = 100
	}

	if target > 0 {
		p.OnTrack = float64(p.TotalSales) >= float64(target)/365*float64(p.DaysElapsed)
	} else {
		p.OnTrack = true
	}

	return p
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
