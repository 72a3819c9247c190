// Package scope centralizes dealership-level query scoping. Every listing
// endpoint derives its Mongo filter here instead of branching on roles inline.
package scope

import (
	"go.mongodb.org/mongo-driver/bson"

	"keyflow-api-server/internal/models"
)

// DealershipFilter returns the filter limiting a query to the caller's reach.
// Owners see everything, optionally narrowed to a requested dealership; every
// other role is pinned to its own dealership.
func DealershipFilter(role, userDealershipID, requestedDealershipID string) bson.M {
	if role == models.RoleOwner {
		if requestedDealershipID != "" {
			return bson.M{"dealership_id": requestedDealershipID}
		}
		return bson.M{}
	}
	return bson.M{"dealership_id": userDealershipID}
}

// CanAccess reports whether the caller may touch a resource belonging to
// resourceDealershipID.
func CanAccess(role, userDealershipID, resourceDealershipID string) bool {
	if role == models.RoleOwner {
		return true
	}
	return userDealershipID == resourceDealershipID
}
