package models

import "time"

const (
	DealershipAutomotive = "automotive"
	DealershipRV         = "rv"
)

// Dealership is a tenant. ServiceBays is only meaningful for RV dealerships.
type Dealership struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	DealershipType string    `bson:"dealership_type" json:"dealership_type"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	ServiceBays    int       `bson:"service_bays" json:"service_bays"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
	IsDemo         bool      `bson:"is_demo,omitempty" json:"is_demo,omitempty"`
	LogoURL        string    `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	PrimaryColor   string    `bson:"primary_color,omitempty" json:"primary_color,omitempty"`
	SecondaryColor string    `bson:"secondary_color,omitempty" json:"secondary_color,omitempty"`
	CustomRoles    []string  `bson:"custom_roles" json:"custom_roles"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
