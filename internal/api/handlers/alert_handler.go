package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type AlertHandler struct {
	DB *mongo.Database
}

type CreateTimeAlertRequest struct {
	DealershipID string `json:"dealership_id" binding:"required"`
	AlertMinutes int    `json:"alert_minutes" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

type UpdateTimeAlertRequest struct {
	AlertMinutes int   `json:"alert_minutes" binding:"required"`
	IsActive     *bool `json:"is_active"`
}

// OverdueKey is a key whose checkout has outlived the dealership's threshold.
type OverdueKey struct {
	models.Key
	OverdueMinutes int `json:"overdue_minutes"`
	ElapsedMinutes int `json:"elapsed_minutes"`
}

// CreateTimeAlert sets an overdue threshold for a dealership.
func (h *AlertHandler) CreateTimeAlert(c *gin.Context) {
	var req CreateTimeAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, req.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot configure alerts for other dealerships"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	alert := models.TimeAlert{
		ID:           uuid.New().String(),
		DealershipID: req.DealershipID,
		AlertMinutes: req.AlertMinutes,
		IsActive:     isActive,
	}
	if _, err := h.DB.Collection("time_alerts").InsertOne(context.Background(), alert); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// GetTimeAlerts lists alert configurations in scope.
func (h *AlertHandler) GetTimeAlerts(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))

	cursor, err := h.DB.Collection("time_alerts").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query alerts"})
		return
	}
	defer cursor.Close(context.Background())

	var alerts []models.TimeAlert
	if err = cursor.All(context.Background(), &alerts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode alerts"})
		return
	}
	if alerts == nil {
		alerts = []models.TimeAlert{}
	}

	c.JSON(http.StatusOK, alerts)
}

// UpdateTimeAlert replaces an alert's threshold and active flag.
func (h *AlertHandler) UpdateTimeAlert(c *gin.Context) {
	var req UpdateTimeAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	result, err := h.DB.Collection("time_alerts").UpdateOne(context.Background(),
		bson.M{"id": c.Param("id")},
		bson.M{"$set": bson.M{"alert_minutes": req.AlertMinutes, "is_active": isActive}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	var alert models.TimeAlert
	if err := h.DB.Collection("time_alerts").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&alert); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

// computeOverdue matches checked-out keys against per-dealership thresholds.
// Dealerships without an active alert use the default threshold.
func computeOverdue(keys []models.Key, alertMinutes map[string]int, now time.Time) []OverdueKey {
	overdue := []OverdueKey{}
	for _, key := range keys {
		if key.CurrentCheckout == nil {
			continue
		}
		threshold, ok := alertMinutes[key.DealershipID]
		if !ok {
			threshold = models.DefaultAlertMinutes
		}
		elapsed := now.Sub(key.CurrentCheckout.CheckedOutAt).Minutes()
		if elapsed > float64(threshold) {
			overdue = append(overdue, OverdueKey{
				Key:            key,
				OverdueMinutes: int(elapsed) - threshold,
				ElapsedMinutes: int(elapsed),
			})
		}
	}
	return overdue
}

// loadOverdueKeys runs the overdue query for a caller's scope. Shared with
// the dashboard stats endpoint.
func loadOverdueKeys(db *mongo.Database, caller models.User) ([]OverdueKey, error) {
	alertFilter := scope.DealershipFilter(caller.Role, caller.DealershipID, "")
	cursor, err := db.Collection("time_alerts").Find(context.Background(), alertFilter)
	if err != nil {
		return nil, err
	}
	var alerts []models.TimeAlert
	if err = cursor.All(context.Background(), &alerts); err != nil {
		return nil, err
	}

	alertMinutes := map[string]int{}
	for _, a := range alerts {
		if a.IsActive {
			alertMinutes[a.DealershipID] = a.AlertMinutes
		}
	}

	keyFilter := scope.DealershipFilter(caller.Role, caller.DealershipID, "")
	keyFilter["status"] = models.KeyCheckedOut
	cursor, err = db.Collection("keys").Find(context.Background(), keyFilter)
	if err != nil {
		return nil, err
	}
	var keys []models.Key
	if err = cursor.All(context.Background(), &keys); err != nil {
		return nil, err
	}

	return computeOverdue(keys, alertMinutes, time.Now().UTC()), nil
}

// GetOverdueKeys lists keys overdue for return in the caller's scope.
func (h *AlertHandler) GetOverdueKeys(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	overdue, err := loadOverdueKeys(h.DB, caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute overdue keys"})
		return
	}

	c.JSON(http.StatusOK, overdue)
}
