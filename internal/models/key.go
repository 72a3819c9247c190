package models

import (
	"strconv"
	"strings"
	"time"
)

const (
	KeyAvailable  = "available"
	KeyCheckedOut = "checked_out"

	ConditionNew  = "new"
	ConditionUsed = "used"

	AttentionNone   = "none"
	AttentionNeeded = "needs_attention"
	AttentionFixed  = "fixed"

	PDINotYet     = "not_pdi_yet"
	PDIInProgress = "in_progress"
	PDIFinished   = "finished"
)

// MaxKeyImages caps the number of image URLs attached to a key.
const MaxKeyImages = 3

// ValidPDIStatus reports whether s is one of the three recognized PDI states.
func ValidPDIStatus(s string) bool {
	return s == PDINotYet || s == PDIInProgress || s == PDIFinished
}

// CheckoutInfo is embedded on a key while it is checked out. Invariant: present
// iff status == checked_out.
type CheckoutInfo struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	UserName     string    `bson:"user_name" json:"user_name"`
	Reason       string    `bson:"reason" json:"reason"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ServiceBay   *int      `bson:"service_bay,omitempty" json:"service_bay,omitempty"`
	CheckedOutAt time.Time `bson:"checked_out_at" json:"checked_out_at"`
}

// NoteEntry is one row of a key's free-text note history, newest first.
type NoteEntry struct {
	Note      string    `bson:"note" json:"note"`
	UserName  string    `bson:"user_name" json:"user_name"`
	Action    string    `bson:"action" json:"action"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Key tracks a vehicle's physical key and its checkout state.
type Key struct {
	ID               string        `bson:"id" json:"id"`
	StockNumber      string        `bson:"stock_number" json:"stock_number"`
	VehicleYear      *int          `bson:"vehicle_year,omitempty" json:"vehicle_year,omitempty"`
	VehicleMake      string        `bson:"vehicle_make,omitempty" json:"vehicle_make,omitempty"`
	VehicleModel     string        `bson:"vehicle_model" json:"vehicle_model"`
	VehicleVIN       string        `bson:"vehicle_vin,omitempty" json:"vehicle_vin,omitempty"`
	Condition        string        `bson:"condition" json:"condition"`
	DealershipID     string        `bson:"dealership_id" json:"dealership_id"`
	Status           string        `bson:"status" json:"status"`
	CurrentCheckout  *CheckoutInfo `bson:"current_checkout,omitempty" json:"current_checkout,omitempty"`
	NotesHistory     []NoteEntry   `bson:"notes_history" json:"notes_history"`
	Images           []string      `bson:"images" json:"images"`
	AttentionStatus  string        `bson:"attention_status" json:"attention_status"`
	PDIStatus        string        `bson:"pdi_status" json:"pdi_status"`
	PDIUpdatedAt     *time.Time    `bson:"pdi_last_updated_at,omitempty" json:"pdi_last_updated_at,omitempty"`
	PDIUpdatedByID   string        `bson:"pdi_last_updated_by_user_id,omitempty" json:"pdi_last_updated_by_user_id,omitempty"`
	PDIUpdatedByName string        `bson:"pdi_last_updated_by_user_name,omitempty" json:"pdi_last_updated_by_user_name,omitempty"`
	IsActive         bool          `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
}

// VehicleInfo renders "year make model" for display on repair tickets.
func (k *Key) VehicleInfo() string {
	parts := []string{}
	if k.VehicleYear != nil {
		parts = append(parts, strconv.Itoa(*k.VehicleYear))
	}
	if k.VehicleMake != "" {
		parts = append(parts, k.VehicleMake)
	}
	if k.VehicleModel != "" {
		parts = append(parts, k.VehicleModel)
	}
	return strings.Join(parts, " ")
}

// KeyHistoryEntry is an immutable checkout/return/bay-move record in the
// "key_history" collection.
type KeyHistoryEntry struct {
	ID               string        `bson:"id" json:"id"`
	KeyID            string        `bson:"key_id" json:"key_id"`
	DealershipID     string        `bson:"dealership_id" json:"dealership_id"`
	Action           string        `bson:"action" json:"action"`
	UserID           string        `bson:"user_id" json:"user_id"`
	UserName         string        `bson:"user_name" json:"user_name"`
	Reason           string        `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`
	ServiceBay       *int          `bson:"service_bay,omitempty" json:"service_bay,omitempty"`
	OldBay           *int          `bson:"old_bay,omitempty" json:"old_bay,omitempty"`
	NewBay           *int          `bson:"new_bay,omitempty" json:"new_bay,omitempty"`
	CheckedOutAt     *time.Time    `bson:"checked_out_at,omitempty" json:"checked_out_at,omitempty"`
	ReturnedAt       *time.Time    `bson:"returned_at,omitempty" json:"returned_at,omitempty"`
	MovedAt          *time.Time    `bson:"moved_at,omitempty" json:"moved_at,omitempty"`
	DurationMinutes  *int          `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	OriginalCheckout *CheckoutInfo `bson:"original_checkout,omitempty" json:"original_checkout,omitempty"`
}

// PDIAuditLogEntry is an append-only record of a PDI status change. Never
// written when the new status equals the current one.
type PDIAuditLogEntry struct {
	ID              string    `bson:"id" json:"id"`
	KeyID           string    `bson:"key_id" json:"key_id"`
	StockNumber     string    `bson:"stock_number" json:"stock_number"`
	DealershipID    string    `bson:"dealership_id" json:"dealership_id"`
	ChangedByUserID string    `bson:"changed_by_user_id" json:"changed_by_user_id"`
	ChangedByUserName string  `bson:"changed_by_user_name" json:"changed_by_user_name"`
	ChangedAt       time.Time `bson:"changed_at" json:"changed_at"`
	PreviousStatus  string    `bson:"previous_status" json:"previous_status"`
	NewStatus       string    `bson:"new_status" json:"new_status"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
}
