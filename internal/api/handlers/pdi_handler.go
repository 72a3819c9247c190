package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type PDIHandler struct {
	DB *mongo.Database
}

type PDIStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdatePDIStatus sets a key's pre-delivery-inspection status and appends an
// audit record. Writing the status the key already has is a no-op and leaves
// the audit log untouched.
func (h *PDIHandler) UpdatePDIStatus(c *gin.Context) {
	var req PDIStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidPDIStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PDI status. Must be 'not_pdi_yet', 'in_progress', or 'finished'"})
		return
	}

	var key models.Key
	err := h.DB.Collection("keys").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve key"})
		}
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, key.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot update keys from other dealerships"})
		return
	}

	if key.PDIStatus == req.Status {
		c.JSON(http.StatusOK, key)
		return
	}

	now := time.Now().UTC()

	// Match on the status we just read so a concurrent change loses cleanly
	// instead of producing an audit entry with a stale previous_status.
	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID, "pdi_status": key.PDIStatus},
		bson.M{"$set": bson.M{
			"pdi_status":                    req.Status,
			"pdi_last_updated_at":           now,
			"pdi_last_updated_by_user_id":   caller.ID,
			"pdi_last_updated_by_user_name": caller.Name,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDI status"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "PDI status changed concurrently. Retry."})
		return
	}

	entry := models.PDIAuditLogEntry{
		ID:                uuid.New().String(),
		KeyID:             key.ID,
		StockNumber:       key.StockNumber,
		DealershipID:      key.DealershipID,
		ChangedByUserID:   caller.ID,
		ChangedByUserName: caller.Name,
		ChangedAt:         now,
		PreviousStatus:    key.PDIStatus,
		NewStatus:         req.Status,
		Notes:             req.Notes,
	}
	if _, err := h.DB.Collection("pdi_audit_logs").InsertOne(context.Background(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record audit entry"})
		return
	}

	if err := h.DB.Collection("keys").FindOne(context.Background(), bson.M{"id": key.ID}).Decode(&key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve key"})
		return
	}
	c.JSON(http.StatusOK, key)
}

// GetKeyAuditLog lists the PDI audit entries for one key, newest first.
func (h *PDIHandler) GetKeyAuditLog(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: -1}})
	cursor, err := h.DB.Collection("pdi_audit_logs").Find(context.Background(),
		bson.M{"key_id": c.Param("id")}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query audit log"})
		return
	}
	defer cursor.Close(context.Background())

	var entries []models.PDIAuditLogEntry
	if err = cursor.All(context.Background(), &entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode audit log"})
		return
	}
	if entries == nil {
		entries = []models.PDIAuditLogEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetGlobalAuditLog lists PDI audit entries across the caller's scope, newest
// first, capped at 500 rows.
func (h *PDIHandler) GetGlobalAuditLog(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))

	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: -1}}).SetLimit(500)
	cursor, err := h.DB.Collection("pdi_audit_logs").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query audit log"})
		return
	}
	defer cursor.Close(context.Background())

	var entries []models.PDIAuditLogEntry
	if err = cursor.All(context.Background(), &entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode audit log"})
		return
	}
	if entries == nil {
		entries = []models.PDIAuditLogEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
