package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"keyflow-api-server/internal/models"
)

func checkedOutKey(id, dealershipID string, checkedOutAt time.Time) models.Key {
	return models.Key{
		ID:           id,
		DealershipID: dealershipID,
		Status:       models.KeyCheckedOut,
		CurrentCheckout: &models.CheckoutInfo{
			UserID:       "u1",
			UserName:     "Test User",
			Reason:       "test drive",
			CheckedOutAt: checkedOutAt,
		},
	}
}

func TestComputeOverdueUsesConfiguredThreshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keys := []models.Key{
		checkedOutKey("k1", "d1", now.Add(-45*time.Minute)),
		checkedOutKey("k2", "d1", now.Add(-10*time.Minute)),
	}
	alerts := map[string]int{"d1": 15}

	overdue := computeOverdue(keys, alerts, now)

	assert.Len(t, overdue, 1)
	assert.Equal(t, "k1", overdue[0].ID)
	assert.Equal(t, 30, overdue[0].OverdueMinutes)
	assert.Equal(t, 45, overdue[0].ElapsedMinutes)
}

func TestComputeOverdueDefaultThreshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keys := []models.Key{
		checkedOutKey("k1", "d-unconfigured", now.Add(-31*time.Minute)),
		checkedOutKey("k2", "d-unconfigured", now.Add(-29*time.Minute)),
	}

	overdue := computeOverdue(keys, map[string]int{}, now)

	assert.Len(t, overdue, 1)
	assert.Equal(t, "k1", overdue[0].ID)
	assert.Equal(t, 1, overdue[0].OverdueMinutes)
}

func TestComputeOverdueSkipsKeysWithoutCheckout(t *testing.T) {
	now := time.Now().UTC()
	keys := []models.Key{
		{ID: "k1", DealershipID: "d1", Status: models.KeyCheckedOut},
	}

	overdue := computeOverdue(keys, map[string]int{}, now)
	assert.Empty(t, overdue)
}

func TestComputeOverdueExactThresholdNotOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keys := []models.Key{
		checkedOutKey("k1", "d1", now.Add(-30*time.Minute)),
	}

	overdue := computeOverdue(keys, map[string]int{"d1": 30}, now)
	assert.Empty(t, overdue)
}
