package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"keyflow-api-server/internal/models"
)

func TestDealershipFilterOwner(t *testing.T) {
	assert.Equal(t, bson.M{}, DealershipFilter(models.RoleOwner, "", ""))
	assert.Equal(t, bson.M{"dealership_id": "d2"}, DealershipFilter(models.RoleOwner, "", "d2"))
}

func TestDealershipFilterPinsNonOwners(t *testing.T) {
	for _, role := range []string{models.RoleDealershipAdmin, models.RoleSales, models.RoleService, models.RoleUser} {
		filter := DealershipFilter(role, "d1", "d2")
		assert.Equal(t, bson.M{"dealership_id": "d1"}, filter, "role %s must be pinned to its own dealership", role)
	}
}

func TestCanAccess(t *testing.T) {
	assert.True(t, CanAccess(models.RoleOwner, "", "d1"))
	assert.True(t, CanAccess(models.RoleDealershipAdmin, "d1", "d1"))
	assert.False(t, CanAccess(models.RoleDealershipAdmin, "d1", "d2"))
	assert.False(t, CanAccess(models.RoleSales, "d1", "d2"))
	assert.True(t, CanAccess(models.RoleSales, "d1", "d1"))
}
