package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"keyflow-api-server/config"
	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
	"keyflow-api-server/internal/socket"
)

type KeyHandler struct {
	DB  *mongo.Database
	Cfg config.Config
	Hub *socket.Hub
}

type CreateKeyRequest struct {
	StockNumber  string `json:"stock_number" binding:"required"`
	VehicleYear  *int   `json:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model" binding:"required"`
	VehicleVIN   string `json:"vehicle_vin"`
	Condition    string `json:"condition"`
	DealershipID string `json:"dealership_id" binding:"required"`
}

type UpdateKeyRequest struct {
	StockNumber  *string `json:"stock_number"`
	VehicleYear  *int    `json:"vehicle_year"`
	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleVIN   *string `json:"vehicle_vin"`
	Condition    *string `json:"condition"`
	IsActive     *bool   `json:"is_active"`
}

type KeyBulkImportItem struct {
	Condition    string `json:"condition"`
	StockNumber  string `json:"stock_number"`
	VehicleYear  *int   `json:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
}

type KeyBulkImportRequest struct {
	DealershipID string              `json:"dealership_id" binding:"required"`
	Keys         []KeyBulkImportItem `json:"keys" binding:"required"`
}

type CheckoutRequest struct {
	Reason         string   `json:"reason" binding:"required"`
	Notes          string   `json:"notes"`
	ServiceBay     *int     `json:"service_bay"`
	NeedsAttention bool     `json:"needs_attention"`
	Images         []string `json:"images"`
}

type ReturnRequest struct {
	Notes string `json:"notes"`
}

type BayMoveRequest struct {
	NewBay int `json:"new_bay" binding:"required"`
}

type MarkFixedRequest struct {
	Notes string `json:"notes"`
}

type AddImagesRequest struct {
	Images []string `json:"images" binding:"required"`
}

func newKeyDocument(stockNumber string, year *int, vehicleMake, model, vin, condition, dealershipID string) models.Key {
	return models.Key{
		ID:              uuid.New().String(),
		StockNumber:     stockNumber,
		VehicleYear:     year,
		VehicleMake:     vehicleMake,
		VehicleModel:    model,
		VehicleVIN:      vin,
		Condition:       condition,
		DealershipID:    dealershipID,
		Status:          models.KeyAvailable,
		NotesHistory:    []models.NoteEntry{},
		Images:          []string{},
		AttentionStatus: models.AttentionNone,
		PDIStatus:       models.PDINotYet,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
}

// findKey loads a key by path ID or writes a 404.
func (h *KeyHandler) findKey(c *gin.Context) (*models.Key, bool) {
	var key models.Key
	err := h.DB.Collection("keys").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve key"})
		}
		return nil, false
	}
	return &key, true
}

// respondWithKey reloads the key after a mutation and returns it.
func (h *KeyHandler) respondWithKey(c *gin.Context, keyID string) {
	var key models.Key
	if err := h.DB.Collection("keys").FindOne(context.Background(), bson.M{"id": keyID}).Decode(&key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve key"})
		return
	}
	c.JSON(http.StatusOK, key)
}

// CreateKey registers a key for a dealership. Demo tenants are capped by
// counting active keys on every create.
func (h *KeyHandler) CreateKey(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, req.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot create keys for other dealerships"})
		return
	}

	keys := h.DB.Collection("keys")

	if caller.IsDemo {
		count, err := keys.CountDocuments(context.Background(),
			bson.M{"dealership_id": req.DealershipID, "is_active": true})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error counting keys"})
			return
		}
		if count >= int64(h.Cfg.Demo.MaxKeys) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Demo account limited to %d keys. Upgrade to add more!", h.Cfg.Demo.MaxKeys)})
			return
		}
	}

	condition := req.Condition
	if condition == "" {
		condition = models.ConditionNew
	}

	key := newKeyDocument(req.StockNumber, req.VehicleYear, req.VehicleMake, req.VehicleModel, req.VehicleVIN, condition, req.DealershipID)
	if _, err := keys.InsertOne(context.Background(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create key"})
		return
	}

	c.JSON(http.StatusCreated, key)
}

// validateImportRow normalizes one bulk-import row. The returned condition is
// lower-cased and trimmed.
func validateImportRow(item KeyBulkImportItem) (string, error) {
	condition := strings.ToLower(strings.TrimSpace(item.Condition))
	if condition != models.ConditionNew && condition != models.ConditionUsed {
		return "", fmt.Errorf("Invalid condition '%s'. Must be 'new' or 'used'.", item.Condition)
	}
	if strings.TrimSpace(item.StockNumber) == "" {
		return "", fmt.Errorf("Stock number is required.")
	}
	if strings.TrimSpace(item.VehicleModel) == "" {
		return "", fmt.Errorf("Vehicle model is required.")
	}
	return condition, nil
}

// BulkImportKeys inserts rows independently; failures are collected per row
// and never roll back earlier successes.
func (h *KeyHandler) BulkImportKeys(c *gin.Context) {
	var req KeyBulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, req.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot import keys for other dealerships"})
		return
	}

	keys := h.DB.Collection("keys")

	if caller.IsDemo {
		count, err := keys.CountDocuments(context.Background(),
			bson.M{"dealership_id": req.DealershipID, "is_active": true})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error counting keys"})
			return
		}
		if count+int64(len(req.Keys)) > int64(h.Cfg.Demo.MaxKeys) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Demo account limited to %d keys. You have %d keys and are trying to add %d.", h.Cfg.Demo.MaxKeys, count, len(req.Keys))})
			return
		}
	}

	imported := 0
	importErrors := []gin.H{}

	for idx, item := range req.Keys {
		condition, err := validateImportRow(item)
		if err != nil {
			importErrors = append(importErrors, gin.H{"row": idx + 1, "error": err.Error()})
			continue
		}

		stockNumber := strings.TrimSpace(item.StockNumber)
		count, err := keys.CountDocuments(context.Background(), bson.M{
			"dealership_id": req.DealershipID,
			"stock_number":  stockNumber,
			"is_active":     true,
		})
		if err != nil {
			importErrors = append(importErrors, gin.H{"row": idx + 1, "error": err.Error()})
			continue
		}
		if count > 0 {
			importErrors = append(importErrors, gin.H{"row": idx + 1, "error": fmt.Sprintf("Stock number '%s' already exists.", stockNumber)})
			continue
		}

		key := newKeyDocument(stockNumber, item.VehicleYear, strings.TrimSpace(item.VehicleMake), strings.TrimSpace(item.VehicleModel), "", condition, req.DealershipID)
		if _, err := keys.InsertOne(context.Background(), key); err != nil {
			importErrors = append(importErrors, gin.H{"row": idx + 1, "error": err.Error()})
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"imported":        imported,
		"errors":          importErrors,
		"total_submitted": len(req.Keys),
	})
}

// GetKeys lists active keys in scope, filterable by status and PDI status.
func (h *KeyHandler) GetKeys(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))
	filter["is_active"] = true
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if pdiStatus := c.Query("pdi_status"); pdiStatus != "" {
		filter["pdi_status"] = pdiStatus
	}

	cursor, err := h.DB.Collection("keys").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query keys"})
		return
	}
	defer cursor.Close(context.Background())

	var keys []models.Key
	if err = cursor.All(context.Background(), &keys); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode keys"})
		return
	}
	if keys == nil {
		keys = []models.Key{}
	}

	c.JSON(http.StatusOK, keys)
}

// GetKey returns one key by ID.
func (h *KeyHandler) GetKey(c *gin.Context) {
	key, ok := h.findKey(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, key)
}

// UpdateKey applies a partial update to a key's descriptive fields.
func (h *KeyHandler) UpdateKey(c *gin.Context) {
	var req UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if req.StockNumber != nil {
		update["stock_number"] = *req.StockNumber
	}
	if req.VehicleYear != nil {
		update["vehicle_year"] = *req.VehicleYear
	}
	if req.VehicleMake != nil {
		update["vehicle_make"] = *req.VehicleMake
	}
	if req.VehicleModel != nil {
		update["vehicle_model"] = *req.VehicleModel
	}
	if req.VehicleVIN != nil {
		update["vehicle_vin"] = *req.VehicleVIN
	}
	if req.Condition != nil {
		update["condition"] = *req.Condition
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}

	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": c.Param("id")}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update key"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}

	h.respondWithKey(c, c.Param("id"))
}

// CheckoutKey flips an available key to checked_out. The update matches on
// the available status, so a concurrent checkout loses with a 409 instead of
// silently overwriting.
func (h *KeyHandler) CheckoutKey(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, ok := h.findKey(c)
	if !ok {
		return
	}
	if key.Status == models.KeyCheckedOut {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is already checked out"})
		return
	}

	caller := middleware.CurrentUser(c)
	now := time.Now().UTC()
	checkout := models.CheckoutInfo{
		UserID:       caller.ID,
		UserName:     caller.Name,
		Reason:       req.Reason,
		Notes:        req.Notes,
		ServiceBay:   req.ServiceBay,
		CheckedOutAt: now,
	}

	notesHistory := key.NotesHistory
	if req.Notes != "" {
		notesHistory = append([]models.NoteEntry{{
			Note:      req.Notes,
			UserName:  caller.Name,
			Action:    "checkout",
			Timestamp: now,
		}}, notesHistory...)
	}

	update := bson.M{
		"status":           models.KeyCheckedOut,
		"current_checkout": checkout,
		"notes_history":    notesHistory,
	}
	if req.NeedsAttention {
		update["attention_status"] = models.AttentionNeeded
		if len(req.Images) > 0 {
			images := req.Images
			if len(images) > models.MaxKeyImages {
				images = images[:models.MaxKeyImages]
			}
			update["images"] = images
		}
	}

	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID, "status": models.KeyAvailable},
		bson.M{"$set": update},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check out key"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is already checked out"})
		return
	}

	if req.NeedsAttention {
		notes := req.Notes
		if notes == "" {
			notes = "Needs attention"
		}
		images := req.Images
		if len(images) > models.MaxKeyImages {
			images = images[:models.MaxKeyImages]
		}
		if images == nil {
			images = []string{}
		}
		repair := models.RepairRequest{
			ID:             uuid.New().String(),
			KeyID:          key.ID,
			StockNumber:    key.StockNumber,
			VehicleInfo:    key.VehicleInfo(),
			DealershipID:   key.DealershipID,
			ReportedByID:   caller.ID,
			ReportedByName: caller.Name,
			Notes:          notes,
			Images:         images,
			Status:         models.RepairPending,
			ReportedAt:     now,
		}
		if _, err := h.DB.Collection("repair_requests").InsertOne(context.Background(), repair); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create repair request"})
			return
		}
	}

	history := models.KeyHistoryEntry{
		ID:           uuid.New().String(),
		KeyID:        key.ID,
		DealershipID: key.DealershipID,
		Action:       "checkout",
		UserID:       caller.ID,
		UserName:     caller.Name,
		Reason:       req.Reason,
		Notes:        req.Notes,
		ServiceBay:   req.ServiceBay,
		CheckedOutAt: &now,
	}
	if _, err := h.DB.Collection("key_history").InsertOne(context.Background(), history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record key history"})
		return
	}

	h.Hub.Broadcast(socket.KeyEvent{
		Event:        "key_checked_out",
		KeyID:        key.ID,
		StockNumber:  key.StockNumber,
		DealershipID: key.DealershipID,
		UserName:     caller.Name,
	})

	h.respondWithKey(c, key.ID)
}

// ReturnKey flips a checked-out key back to available, recording the
// checkout duration and a snapshot of the prior checkout info.
func (h *KeyHandler) ReturnKey(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, ok := h.findKey(c)
	if !ok {
		return
	}
	if key.Status != models.KeyCheckedOut || key.CurrentCheckout == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is not checked out"})
		return
	}

	caller := middleware.CurrentUser(c)
	returnedAt := time.Now().UTC()
	durationMinutes := int(returnedAt.Sub(key.CurrentCheckout.CheckedOutAt).Minutes())

	notesHistory := key.NotesHistory
	if req.Notes != "" {
		notesHistory = append([]models.NoteEntry{{
			Note:      req.Notes,
			UserName:  caller.Name,
			Action:    "return",
			Timestamp: returnedAt,
		}}, notesHistory...)
	}

	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID, "status": models.KeyCheckedOut},
		bson.M{"$set": bson.M{
			"status":           models.KeyAvailable,
			"current_checkout": nil,
			"notes_history":    notesHistory,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to return key"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is not checked out"})
		return
	}

	history := models.KeyHistoryEntry{
		ID:               uuid.New().String(),
		KeyID:            key.ID,
		DealershipID:     key.DealershipID,
		Action:           "return",
		UserID:           caller.ID,
		UserName:         caller.Name,
		Notes:            req.Notes,
		ReturnedAt:       &returnedAt,
		DurationMinutes:  &durationMinutes,
		OriginalCheckout: key.CurrentCheckout,
	}
	if _, err := h.DB.Collection("key_history").InsertOne(context.Background(), history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record key history"})
		return
	}

	h.Hub.Broadcast(socket.KeyEvent{
		Event:        "key_returned",
		KeyID:        key.ID,
		StockNumber:  key.StockNumber,
		DealershipID: key.DealershipID,
		UserName:     caller.Name,
	})

	h.respondWithKey(c, key.ID)
}

// MoveBay overwrites the embedded checkout's service bay. The new bay is not
// validated against the dealership's configured bay count; callers own that.
func (h *KeyHandler) MoveBay(c *gin.Context) {
	var req BayMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, ok := h.findKey(c)
	if !ok {
		return
	}
	if key.Status != models.KeyCheckedOut || key.CurrentCheckout == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is not checked out"})
		return
	}

	caller := middleware.CurrentUser(c)
	oldBay := key.CurrentCheckout.ServiceBay
	movedAt := time.Now().UTC()

	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID, "status": models.KeyCheckedOut},
		bson.M{"$set": bson.M{"current_checkout.service_bay": req.NewBay}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move key"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Key is not checked out"})
		return
	}

	newBay := req.NewBay
	history := models.KeyHistoryEntry{
		ID:           uuid.New().String(),
		KeyID:        key.ID,
		DealershipID: key.DealershipID,
		Action:       "bay_move",
		UserID:       caller.ID,
		UserName:     caller.Name,
		OldBay:       oldBay,
		NewBay:       &newBay,
		MovedAt:      &movedAt,
	}
	if _, err := h.DB.Collection("key_history").InsertOne(context.Background(), history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record key history"})
		return
	}

	h.respondWithKey(c, key.ID)
}

// MarkFixed resolves a needs_attention flag, closing the pending repair
// request along the way.
func (h *KeyHandler) MarkFixed(c *gin.Context) {
	var req MarkFixedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, ok := h.findKey(c)
	if !ok {
		return
	}

	caller := middleware.CurrentUser(c)
	now := time.Now().UTC()

	note := req.Notes
	if note == "" {
		note = "Marked as fixed"
	}
	notesHistory := append([]models.NoteEntry{{
		Note:      note,
		UserName:  caller.Name,
		Action:    "marked_fixed",
		Timestamp: now,
	}}, key.NotesHistory...)

	result, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID, "attention_status": models.AttentionNeeded},
		bson.M{"$set": bson.M{
			"attention_status": models.AttentionFixed,
			"notes_history":    notesHistory,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update key"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key is not marked as needing attention"})
		return
	}

	_, err = h.DB.Collection("repair_requests").UpdateOne(context.Background(),
		bson.M{"key_id": key.ID, "status": models.RepairPending},
		bson.M{"$set": bson.M{
			"status":        models.RepairFixed,
			"fixed_by_id":   caller.ID,
			"fixed_by_name": caller.Name,
			"fixed_at":      now,
			"fix_notes":     req.Notes,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update repair request"})
		return
	}

	h.Hub.Broadcast(socket.KeyEvent{
		Event:        "key_marked_fixed",
		KeyID:        key.ID,
		StockNumber:  key.StockNumber,
		DealershipID: key.DealershipID,
		UserName:     caller.Name,
	})

	h.respondWithKey(c, key.ID)
}

// AddImages appends image URLs to a key, capped at three total.
func (h *KeyHandler) AddImages(c *gin.Context) {
	var req AddImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, ok := h.findKey(c)
	if !ok {
		return
	}

	images := append(key.Images, req.Images...)
	if len(images) > models.MaxKeyImages {
		images = images[:models.MaxKeyImages]
	}

	_, err := h.DB.Collection("keys").UpdateOne(context.Background(),
		bson.M{"id": key.ID}, bson.M{"$set": bson.M{"images": images}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update key"})
		return
	}

	h.respondWithKey(c, key.ID)
}

// GetKeyHistory lists the immutable history records for one key.
func (h *KeyHandler) GetKeyHistory(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "checked_out_at", Value: -1}})
	cursor, err := h.DB.Collection("key_history").Find(context.Background(),
		bson.M{"key_id": c.Param("id")}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query key history"})
		return
	}
	defer cursor.Close(context.Background())

	var history []models.KeyHistoryEntry
	if err = cursor.All(context.Background(), &history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode key history"})
		return
	}
	if history == nil {
		history = []models.KeyHistoryEntry{}
	}

	c.JSON(http.StatusOK, history)
}

// GetCheckoutHistory lists history records across the caller's scope.
func (h *KeyHandler) GetCheckoutHistory(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))

	opts := options.Find().SetSort(bson.D{{Key: "checked_out_at", Value: -1}}).SetLimit(500)
	cursor, err := h.DB.Collection("key_history").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query checkout history"})
		return
	}
	defer cursor.Close(context.Background())

	var history []models.KeyHistoryEntry
	if err = cursor.All(context.Background(), &history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode checkout history"})
		return
	}
	if history == nil {
		history = []models.KeyHistoryEntry{}
	}

	c.JSON(http.StatusOK, history)
}
