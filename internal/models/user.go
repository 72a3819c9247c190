package models

import "time"

// User roles. Owner is the platform operator; dealership_admin manages a single
// dealership; the remaining roles are staff with identical permissions.
const (
	RoleOwner           = "owner"
	RoleDealershipAdmin = "dealership_admin"
	RoleSales           = "sales"
	RoleService         = "service"
	RoleDelivery        = "delivery"
	RolePorter          = "porter"
	RoleLotTech         = "lot_tech"
	RoleUser            = "user"
)

// StandardUserRoles lists the staff roles eligible for name+PIN login.
var StandardUserRoles = []string{RoleSales, RoleService, RoleDelivery, RolePorter, RoleLotTech, RoleUser}

// User matches the document in the "users" collection. Password, PIN and
// AdminPIN are bcrypt hashes and are never serialized to JSON.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Password     string    `bson:"password,omitempty" json:"-"`
	PIN          string    `bson:"pin,omitempty" json:"-"`
	AdminPIN     string    `bson:"admin_pin,omitempty" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"`
	DealershipID string    `bson:"dealership_id,omitempty" json:"dealership_id,omitempty"`
	IsDemo       bool      `bson:"is_demo,omitempty" json:"is_demo,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// IsStandardRole reports whether role is one of the staff roles.
func IsStandardRole(role string) bool {
	for _, r := range StandardUserRoles {
		if r == role {
			return true
		}
	}
	return false
}
