package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type StatsHandler struct {
	DB *mongo.Database
}

// GetDashboardStats returns the counters shown on the dashboard header.
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	keys := h.DB.Collection("keys")

	keyFilter := scope.DealershipFilter(caller.Role, caller.DealershipID, "")
	keyFilter["is_active"] = true
	totalKeys, err := keys.CountDocuments(context.Background(), keyFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count keys"})
		return
	}

	checkedOutFilter := scope.DealershipFilter(caller.Role, caller.DealershipID, "")
	checkedOutFilter["status"] = models.KeyCheckedOut
	checkedOut, err := keys.CountDocuments(context.Background(), checkedOutFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count keys"})
		return
	}

	overdue, err := loadOverdueKeys(h.DB, caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute overdue keys"})
		return
	}

	userFilter := bson.M{}
	if caller.Role == models.RoleDealershipAdmin {
		userFilter["dealership_id"] = caller.DealershipID
	}
	totalUsers, err := h.DB.Collection("users").CountDocuments(context.Background(), userFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	totalDealerships := int64(1)
	if caller.Role == models.RoleOwner {
		totalDealerships, err = h.DB.Collection("dealerships").CountDocuments(context.Background(), bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count dealerships"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_keys":        totalKeys,
		"available_keys":    totalKeys - checkedOut,
		"checked_out_keys":  checkedOut,
		"overdue_keys":      len(overdue),
		"total_users":       totalUsers,
		"total_dealerships": totalDealerships,
	})
}
