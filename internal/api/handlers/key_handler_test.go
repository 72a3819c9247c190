package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyflow-api-server/internal/models"
)

func TestValidateImportRowNormalizesCondition(t *testing.T) {
	condition, err := validateImportRow(KeyBulkImportItem{
		Condition:    "  NEW ",
		StockNumber:  "A100",
		VehicleModel: "Civic",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConditionNew, condition)

	condition, err = validateImportRow(KeyBulkImportItem{
		Condition:    "Used",
		StockNumber:  "A101",
		VehicleModel: "F-150",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConditionUsed, condition)
}

func TestValidateImportRowRejectsBadCondition(t *testing.T) {
	_, err := validateImportRow(KeyBulkImportItem{
		Condition:    "certified",
		StockNumber:  "A100",
		VehicleModel: "Civic",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "certified")
}

func TestValidateImportRowRequiresStockNumberAndModel(t *testing.T) {
	_, err := validateImportRow(KeyBulkImportItem{
		Condition:    "new",
		StockNumber:  "   ",
		VehicleModel: "Civic",
	})
	assert.Error(t, err)

	_, err = validateImportRow(KeyBulkImportItem{
		Condition:    "new",
		StockNumber:  "A100",
		VehicleModel: "",
	})
	assert.Error(t, err)
}

func TestNewKeyDocumentDefaults(t *testing.T) {
	year := 2024
	key := newKeyDocument("A100", &year, "Honda", "Civic", "VIN123", models.ConditionNew, "d1")

	assert.NotEmpty(t, key.ID)
	assert.Equal(t, models.KeyAvailable, key.Status)
	assert.Equal(t, models.AttentionNone, key.AttentionStatus)
	assert.Equal(t, models.PDINotYet, key.PDIStatus)
	assert.True(t, key.IsActive)
	assert.Nil(t, key.CurrentCheckout)
	assert.Empty(t, key.Images)
	assert.Empty(t, key.NotesHistory)
}

func TestVehicleInfoRendering(t *testing.T) {
	year := 2024
	key := models.Key{VehicleYear: &year, VehicleMake: "Honda", VehicleModel: "Civic"}
	assert.Equal(t, "2024 Honda Civic", key.VehicleInfo())

	bare := models.Key{VehicleModel: "Civic"}
	assert.Equal(t, "Civic", bare.VehicleInfo())
}
