package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/auth"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type DealershipHandler struct {
	DB *mongo.Database
}

type CreateDealershipRequest struct {
	Name           string `json:"name" binding:"required"`
	DealershipType string `json:"dealership_type"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	ServiceBays    int    `json:"service_bays"`
	AdminEmail     string `json:"admin_email"`
	AdminPassword  string `json:"admin_password"`
	AdminName      string `json:"admin_name"`
	AdminPIN       string `json:"admin_pin"`
}

type UpdateDealershipRequest struct {
	Name           *string   `json:"name"`
	DealershipType *string   `json:"dealership_type"`
	Address        *string   `json:"address"`
	Phone          *string   `json:"phone"`
	ServiceBays    *int      `json:"service_bays"`
	IsActive       *bool     `json:"is_active"`
	LogoURL        *string   `json:"logo_url"`
	PrimaryColor   *string   `json:"primary_color"`
	SecondaryColor *string   `json:"secondary_color"`
	CustomRoles    *[]string `json:"custom_roles"`
}

type CustomRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateDealership creates a tenant (owner only) and optionally bootstraps
// its admin account with a hashed password and PIN.
func (h *DealershipHandler) CreateDealership(c *gin.Context) {
	var req CreateDealershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dealershipType := req.DealershipType
	if dealershipType == "" {
		dealershipType = models.DealershipAutomotive
	}

	// Service bays only mean something on RV lots.
	serviceBays := 0
	if dealershipType == models.DealershipRV {
		serviceBays = req.ServiceBays
	}

	dealership := models.Dealership{
		ID:             uuid.New().String(),
		Name:           req.Name,
		DealershipType: dealershipType,
		Address:        req.Address,
		Phone:          req.Phone,
		ServiceBays:    serviceBays,
		IsActive:       true,
		CustomRoles:    []string{},
		CreatedAt:      time.Now().UTC(),
	}

	if req.AdminEmail != "" && req.AdminPassword != "" {
		users := h.DB.Collection("users")
		count, err := users.CountDocuments(context.Background(), bson.M{"email": req.AdminEmail})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for admin email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin email already registered"})
			return
		}

		adminPIN := req.AdminPIN
		if adminPIN == "" {
			adminPIN = "0000"
		}
		if err := auth.ValidatePIN(adminPIN); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hashedPassword, err := auth.HashPassword(req.AdminPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash admin password"})
			return
		}
		hashedPIN, err := auth.HashPassword(adminPIN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash admin PIN"})
			return
		}

		adminName := req.AdminName
		if adminName == "" {
			adminName = req.Name + " Admin"
		}

		if _, err := h.DB.Collection("dealerships").InsertOne(context.Background(), dealership); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dealership"})
			return
		}

		admin := models.User{
			ID:           uuid.New().String(),
			Email:        req.AdminEmail,
			Password:     hashedPassword,
			AdminPIN:     hashedPIN,
			Name:         adminName,
			Role:         models.RoleDealershipAdmin,
			DealershipID: dealership.ID,
			CreatedAt:    time.Now().UTC(),
		}
		if _, err := users.InsertOne(context.Background(), admin); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dealership admin"})
			return
		}

		c.JSON(http.StatusCreated, dealership)
		return
	}

	if _, err := h.DB.Collection("dealerships").InsertOne(context.Background(), dealership); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dealership"})
		return
	}

	c.JSON(http.StatusCreated, dealership)
}

// GetDealerships lists dealerships in the caller's scope.
func (h *DealershipHandler) GetDealerships(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	filter := bson.M{}
	if caller.Role != models.RoleOwner {
		filter["id"] = caller.DealershipID
	}

	cursor, err := h.DB.Collection("dealerships").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query dealerships"})
		return
	}
	defer cursor.Close(context.Background())

	var dealerships []models.Dealership
	if err = cursor.All(context.Background(), &dealerships); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode dealerships"})
		return
	}
	if dealerships == nil {
		dealerships = []models.Dealership{}
	}

	c.JSON(http.StatusOK, dealerships)
}

// GetPublicDealerships returns active dealerships for login pickers. No auth.
func (h *DealershipHandler) GetPublicDealerships(c *gin.Context) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "id": 1, "name": 1})
	cursor, err := h.DB.Collection("dealerships").Find(context.Background(), bson.M{"is_active": true}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query dealerships"})
		return
	}
	defer cursor.Close(context.Background())

	var dealerships []bson.M
	if err = cursor.All(context.Background(), &dealerships); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode dealerships"})
		return
	}
	if dealerships == nil {
		dealerships = []bson.M{}
	}

	c.JSON(http.StatusOK, dealerships)
}

// GetDealership returns one dealership by ID.
func (h *DealershipHandler) GetDealership(c *gin.Context) {
	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}
	c.JSON(http.StatusOK, dealership)
}

// UpdateDealership applies a partial update.
func (h *DealershipHandler) UpdateDealership(c *gin.Context) {
	dealershipID := c.Param("id")

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, dealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify other dealerships"})
		return
	}

	var req UpdateDealershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.DealershipType != nil {
		update["dealership_type"] = *req.DealershipType
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}
	if req.ServiceBays != nil {
		update["service_bays"] = *req.ServiceBays
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if req.LogoURL != nil {
		update["logo_url"] = *req.LogoURL
	}
	if req.PrimaryColor != nil {
		update["primary_color"] = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		update["secondary_color"] = *req.SecondaryColor
	}
	if req.CustomRoles != nil {
		update["custom_roles"] = *req.CustomRoles
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}

	result, err := h.DB.Collection("dealerships").UpdateOne(context.Background(),
		bson.M{"id": dealershipID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dealership"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		return
	}

	var dealership models.Dealership
	if err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": dealershipID}).Decode(&dealership); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		return
	}
	c.JSON(http.StatusOK, dealership)
}

// DeleteDealership removes a tenant (owner only).
func (h *DealershipHandler) DeleteDealership(c *gin.Context) {
	result, err := h.DB.Collection("dealerships").DeleteOne(context.Background(), bson.M{"id": c.Param("id")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dealership"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dealership deleted"})
}

// GetDealershipRoles lists standard plus custom user roles.
func (h *DealershipHandler) GetDealershipRoles(c *gin.Context) {
	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}

	standardRoles := []gin.H{
		{"id": models.RoleSales, "name": "Sales"},
		{"id": models.RoleService, "name": "Service"},
		{"id": models.RoleDelivery, "name": "Delivery"},
		{"id": models.RolePorter, "name": "Porter"},
		{"id": models.RoleLotTech, "name": "Lot Tech"},
	}

	customRoles := []gin.H{}
	for _, r := range dealership.CustomRoles {
		customRoles = append(customRoles, gin.H{
			"id":   strings.ReplaceAll(strings.ToLower(r), " ", "_"),
			"name": r,
		})
	}

	c.JSON(http.StatusOK, gin.H{"standard_roles": standardRoles, "custom_roles": customRoles})
}

// AddCustomRole appends a custom role name to a dealership.
func (h *DealershipHandler) AddCustomRole(c *gin.Context) {
	dealershipID := c.Param("id")

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, dealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify other dealerships"})
		return
	}

	var req CustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": dealershipID}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}

	for _, r := range dealership.CustomRoles {
		if r == req.Name {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role already exists"})
			return
		}
	}

	customRoles := append(dealership.CustomRoles, req.Name)
	_, err = h.DB.Collection("dealerships").UpdateOne(context.Background(),
		bson.M{"id": dealershipID}, bson.M{"$set": bson.M{"custom_roles": customRoles}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dealership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role added", "custom_roles": customRoles})
}

// RemoveCustomRole deletes a custom role name from a dealership.
func (h *DealershipHandler) RemoveCustomRole(c *gin.Context) {
	dealershipID := c.Param("id")
	roleName := c.Param("roleName")

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, dealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify other dealerships"})
		return
	}

	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": dealershipID}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}

	customRoles := []string{}
	found := false
	for _, r := range dealership.CustomRoles {
		if r == roleName {
			found = true
			continue
		}
		customRoles = append(customRoles, r)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	_, err = h.DB.Collection("dealerships").UpdateOne(context.Background(),
		bson.M{"id": dealershipID}, bson.M{"$set": bson.M{"custom_roles": customRoles}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dealership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role removed", "custom_roles": customRoles})
}

// GetServiceBays renders the bay board for an RV dealership: one row per
// configured bay with the key currently occupying it, if any.
func (h *DealershipHandler) GetServiceBays(c *gin.Context) {
	dealershipID := c.Param("id")

	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": dealershipID}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}

	if dealership.DealershipType != models.DealershipRV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service bays only available for RV dealerships"})
		return
	}

	cursor, err := h.DB.Collection("keys").Find(context.Background(), bson.M{
		"dealership_id":                dealershipID,
		"status":                       models.KeyCheckedOut,
		"current_checkout.service_bay": bson.M{"$ne": nil},
	})
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

	bays := []gin.H{}
	for i := 1; i <= dealership.ServiceBays; i++ {
		var occupant *models.Key
		for j := range keys {
			if keys[j].CurrentCheckout != nil && keys[j].CurrentCheckout.ServiceBay != nil && *keys[j].CurrentCheckout.ServiceBay == i {
				occupant = &keys[j]
				break
			}
		}
		bays = append(bays, gin.H{
			"bay_number":  i,
			"is_occupied": occupant != nil,
			"key":         occupant,
		})
	}

	c.JSON(http.StatusOK, bays)
}
