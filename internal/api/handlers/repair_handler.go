package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type RepairHandler struct {
	DB *mongo.Database
}

// GetRepairRequests lists repair tickets in scope, newest first, optionally
// filtered by status.
func (h *RepairHandler) GetRepairRequests(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "reported_at", Value: -1}}).SetLimit(500)
	cursor, err := h.DB.Collection("repair_requests").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query repair requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.RepairRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode repair requests"})
		return
	}
	if requests == nil {
		requests = []models.RepairRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// ClearRepairRequest deletes a ticket and resets the key's attention flag and
// images so the board starts clean.
func (h *RepairHandler) ClearRepairRequest(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var request models.RepairRequest
	err := h.DB.Collection("repair_requests").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Repair request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve repair request"})
		}
		return
	}

	if !scope.CanAccess(caller.Role, caller.DealershipID, request.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete repair requests from other dealerships"})
		return
	}

	_, err = h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": request.KeyID},
		bson.M{"$set": bson.M{
			"attention_status": models.AttentionNone,
			"images":           []string{},
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset key"})
		return
	}

	if _, err := h.DB.Collection("repair_requests").DeleteOne(context.Background(), bson.M{"id": request.ID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete repair request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Repair request cleared"})
}
