package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"keyflow-api-server/config"
	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/auth"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type UserHandler struct {
	DB  *mongo.Database
	Cfg config.Config
}

type CreateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
	Role         string `json:"role"`
	DealershipID string `json:"dealership_id" binding:"required"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// CreateUser adds a staff account to a dealership. Staff log in with name +
// PIN, so the name must be unique (case-insensitively) within the dealership.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, req.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot create users for other dealerships"})
		return
	}

	users := h.DB.Collection("users")

	if caller.IsDemo {
		count, err := users.CountDocuments(context.Background(), bson.M{
			"dealership_id": req.DealershipID,
			"is_demo":       bson.M{"$ne": true},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error counting users"})
			return
		}
		if count >= int64(h.Cfg.Demo.MaxUsers) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Demo account limited to %d additional user. Upgrade to add more!", h.Cfg.Demo.MaxUsers)})
			return
		}
	}

	if err := auth.ValidatePIN(req.PIN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nameFilter := bson.M{
		"dealership_id": req.DealershipID,
		"name":          bson.M{"$regex": fmt.Sprintf("^%s$", regexp.QuoteMeta(req.Name)), "$options": "i"},
	}
	count, err := users.CountDocuments(context.Background(), nameFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user with this name already exists in this dealership"})
		return
	}

	if req.Email != "" {
		count, err := users.CountDocuments(context.Background(), bson.M{"email": req.Email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
	}

	hashedPIN, err := auth.HashPassword(req.PIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		PIN:          hashedPIN,
		Role:         role,
		DealershipID: req.DealershipID,
		Email:        req.Email,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = hashed
	}

	if _, err := users.InsertOne(context.Background(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers lists users in scope: owners see all (optionally one dealership),
// admins their dealership, staff only themselves.
func (h *UserHandler) GetUsers(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var filter bson.M
	switch caller.Role {
	case models.RoleOwner, models.RoleDealershipAdmin:
		filter = scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))
	default:
		filter = bson.M{"id": caller.ID}
	}

	cursor, err := h.DB.Collection("users").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	defer cursor.Close(context.Background())

	var users []models.User
	if err = cursor.All(context.Background(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user; admins only within their own dealership.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var target models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if !scope.CanAccess(caller.Role, caller.DealershipID, target.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete users from other dealerships"})
		return
	}

	if _, err := h.DB.Collection("users").DeleteOne(context.Background(), bson.M{"id": target.ID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
