package models

import "time"

// InviteToken is a single-use registration token bound to a dealership and a
// target role. Consumed exactly once by accept; last write wins on the update.
type InviteToken struct {
	ID             string    `bson:"id" json:"id"`
	Token          string    `bson:"token" json:"token"`
	DealershipID   string    `bson:"dealership_id" json:"dealership_id"`
	DealershipName string    `bson:"dealership_name" json:"dealership_name"`
	Role           string    `bson:"role" json:"role"`
	CreatedBy      string    `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt      time.Time `bson:"expires_at" json:"expires_at"`
	IsUsed         bool      `bson:"is_used" json:"is_used"`
	UsedBy         string    `bson:"used_by,omitempty" json:"used_by,omitempty"`
}
