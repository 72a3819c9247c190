package models

import "time"

const (
	RepairPending = "pending"
	RepairFixed   = "fixed"
)

// RepairRequest is created automatically when a checkout flags a key as
// needing attention.
type RepairRequest struct {
	ID             string     `bson:"id" json:"id"`
	KeyID          string     `bson:"key_id" json:"key_id"`
	StockNumber    string     `bson:"stock_number" json:"stock_number"`
	VehicleInfo    string     `bson:"vehicle_info" json:"vehicle_info"`
	DealershipID   string     `bson:"dealership_id" json:"dealership_id"`
	ReportedByID   string     `bson:"reported_by_id" json:"reported_by_id"`
	ReportedByName string     `bson:"reported_by_name" json:"reported_by_name"`
	Notes          string     `bson:"notes" json:"notes"`
	Images         []string   `bson:"images" json:"images"`
	Status         string     `bson:"status" json:"status"`
	ReportedAt     time.Time  `bson:"reported_at" json:"reported_at"`
	FixedByID      string     `bson:"fixed_by_id,omitempty" json:"fixed_by_id,omitempty"`
	FixedByName    string     `bson:"fixed_by_name,omitempty" json:"fixed_by_name,omitempty"`
	FixedAt        *time.Time `bson:"fixed_at,omitempty" json:"fixed_at,omitempty"`
	FixNotes       string     `bson:"fix_notes,omitempty" json:"fix_notes,omitempty"`
}
