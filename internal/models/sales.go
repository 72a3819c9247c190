package models

import "time"

// SalesGoal is a per-user-per-year sales target.
type SalesGoal struct {
	ID                string    `bson:"id" json:"id"`
	UserID            string    `bson:"user_id" json:"user_id"`
	Year              int       `bson:"year" json:"year"`
	YearlySalesTarget int       `bson:"yearly_sales_target" json:"yearly_sales_target"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// DailyActivity is one per-user ledger row, keyed by date (YYYY-MM-DD).
type DailyActivity struct {
	ID                    string    `bson:"id" json:"id"`
	UserID                string    `bson:"user_id" json:"user_id"`
	Date                  string    `bson:"date" json:"date"`
	Worked                bool      `bson:"worked" json:"worked"`
	LeadsWalkIn           int       `bson:"leads_walk_in" json:"leads_walk_in"`
	LeadsPhone            int       `bson:"leads_phone" json:"leads_phone"`
	LeadsInternet         int       `bson:"leads_internet" json:"leads_internet"`
	Writeups              int       `bson:"writeups" json:"writeups"`
	Sales                 int       `bson:"sales" json:"sales"`
	AppointmentsScheduled int       `bson:"appointments_scheduled" json:"appointments_scheduled"`
	AppointmentsShown     int       `bson:"appointments_shown" json:"appointments_shown"`
	OtherActivities       string    `bson:"other_activities,omitempty" json:"other_activities,omitempty"`
	Notes                 string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt             time.Time `bson:"created_at" json:"created_at"`
}
