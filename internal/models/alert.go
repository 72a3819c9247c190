package models

// DefaultAlertMinutes applies when a dealership has no active time alert.
const DefaultAlertMinutes = 30

// TimeAlert configures when a checked-out key counts as overdue.
type TimeAlert struct {
	ID           string `bson:"id" json:"id"`
	DealershipID string `bson:"dealership_id" json:"dealership_id"`
	AlertMinutes int    `bson:"alert_minutes" json:"alert_minutes"`
	IsActive     bool   `bson:"is_active" json:"is_active"`
}
