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
)

type AuthHandler struct {
	DB  *mongo.Database
	Cfg config.Config
}

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role"`
	DealershipID string `json:"dealership_id"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type OwnerLoginRequest struct {
	PIN        string `json:"pin" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type AdminLoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	PIN        string `json:"pin" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type AdminPinLoginRequest struct {
	DealershipID string `json:"dealership_id" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
	RememberMe   bool   `json:"remember_me"`
}

type UserPinLoginRequest struct {
	DealershipID string `json:"dealership_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
	RememberMe   bool   `json:"remember_me"`
}

type ChangeUserPinRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin" binding:"required"`
}

type ChangeAdminPinRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
}

// tokenResponse builds the standard login payload.
func (h *AuthHandler) tokenResponse(c *gin.Context, user models.User, rememberMe bool) {
	token, err := auth.GenerateToken([]byte(h.Cfg.JWT.Secret), user, rememberMe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign session token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// rejectCredential maps the credential taxonomy to one message per failure
// kind, shared by every login endpoint.
func rejectCredential(c *gin.Context, err error) {
	if err == auth.ErrCredentialNotSet {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credential not set. Contact your administrator."})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
}

// Register creates an email/password account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users := h.DB.Collection("users")
	count, err := users.CountDocuments(context.Background(), bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Password:     hashed,
		Name:         req.Name,
		Role:         role,
		DealershipID: req.DealershipID,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := users.InsertOne(context.Background(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.tokenResponse(c, user, false)
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		rejectCredential(c, auth.ErrCredentialMismatch)
		return
	}
	if err := auth.VerifyCredential(req.Password, user.Password); err != nil {
		rejectCredential(c, err)
		return
	}

	h.tokenResponse(c, user, req.RememberMe)
}

// OwnerLogin authenticates the platform owner against the configured PIN,
// provisioning the owner user on first login.
func (h *AuthHandler) OwnerLogin(c *gin.Context) {
	var req OwnerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PIN != h.Cfg.Owner.PIN {
		rejectCredential(c, auth.ErrCredentialMismatch)
		return
	}

	users := h.DB.Collection("users")
	var owner models.User
	err := users.FindOne(context.Background(), bson.M{"role": models.RoleOwner}).Decode(&owner)
	if err == mongo.ErrNoDocuments {
		hashed, hashErr := auth.HashPassword("owner")
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision owner"})
			return
		}
		owner = models.User{
			ID:        uuid.New().String(),
			Email:     "owner@keyflow.app",
			Password:  hashed,
			Name:      "System Owner",
			Role:      models.RoleOwner,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := users.InsertOne(context.Background(), owner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision owner"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error looking up owner"})
		return
	}

	h.tokenResponse(c, owner, req.RememberMe)
}

// AdminLogin authenticates a dealership admin with email and PIN.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil || user.Role != models.RoleDealershipAdmin {
		rejectCredential(c, auth.ErrCredentialMismatch)
		return
	}
	if err := auth.VerifyCredential(req.PIN, user.AdminPIN); err != nil {
		rejectCredential(c, err)
		return
	}

	h.tokenResponse(c, user, req.RememberMe)
}

// AdminPinLogin is the quick admin login: dealership plus PIN only.
func (h *AuthHandler) AdminPinLogin(c *gin.Context) {
	var req AdminPinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{
		"dealership_id": req.DealershipID,
		"role":          models.RoleDealershipAdmin,
	}).Decode(&user)
	if err != nil {
		rejectCredential(c, auth.ErrCredentialMismatch)
		return
	}
	if err := auth.VerifyCredential(req.PIN, user.AdminPIN); err != nil {
		rejectCredential(c, err)
		return
	}

	h.tokenResponse(c, user, req.RememberMe)
}

// UserPinLogin authenticates staff with dealership, name (case-insensitive)
// and PIN.
func (h *AuthHandler) UserPinLogin(c *gin.Context) {
	var req UserPinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{
		"dealership_id": req.DealershipID,
		"name":          bson.M{"$regex": fmt.Sprintf("^%s$", regexp.QuoteMeta(req.Name)), "$options": "i"},
		"role":          bson.M{"$in": models.StandardUserRoles},
	}).Decode(&user)
	if err != nil {
		rejectCredential(c, auth.ErrCredentialMismatch)
		return
	}
	if err := auth.VerifyCredential(req.PIN, user.PIN); err != nil {
		rejectCredential(c, err)
		return
	}

	h.tokenResponse(c, user, req.RememberMe)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// ChangeUserPin lets any authenticated user rotate their own PIN. Admins
// rotate their admin PIN through the same endpoint.
func (h *AuthHandler) ChangeUserPin(c *gin.Context) {
	var req ChangeUserPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)

	currentHash := user.PIN
	if currentHash == "" {
		currentHash = user.AdminPIN
	}
	if currentHash != "" {
		if err := auth.VerifyCredential(req.CurrentPIN, currentHash); err != nil {
			rejectCredential(c, err)
			return
		}
	}

	if err := auth.ValidatePIN(req.NewPIN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.NewPIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	pinField := "pin"
	if user.Role == models.RoleDealershipAdmin {
		pinField = "admin_pin"
	}
	_, err = h.DB.Collection("users").UpdateOne(context.Background(),
		bson.M{"id": user.ID},
		bson.M{"$set": bson.M{pinField: hashed}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PIN"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "PIN changed successfully"})
}

// ChangeAdminPin rotates a dealership admin's PIN, requiring the current one.
func (h *AuthHandler) ChangeAdminPin(c *gin.Context) {
	var req ChangeAdminPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)

	if user.AdminPIN != "" {
		if err := auth.VerifyCredential(req.CurrentPIN, user.AdminPIN); err != nil {
			rejectCredential(c, err)
			return
		}
	}

	if err := auth.ValidatePIN(req.NewPIN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.NewPIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	_, err = h.DB.Collection("users").UpdateOne(context.Background(),
		bson.M{"id": user.ID},
		bson.M{"$set": bson.M{"admin_pin": hashed}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PIN"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "PIN changed successfully"})
}

// DemoLogin provisions (or reuses) the capped demo tenant and returns a
// session for its admin.
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	dealerships := h.DB.Collection("dealerships")
	users := h.DB.Collection("users")

	var demoDealership models.Dealership
	err := dealerships.FindOne(context.Background(), bson.M{"name": "Demo Dealership", "is_demo": true}).Decode(&demoDealership)
	if err == mongo.ErrNoDocuments {
		demoDealership = models.Dealership{
			ID:             uuid.New().String(),
			Name:           "Demo Dealership",
			DealershipType: models.DealershipAutomotive,
			Address:        "123 Demo Street",
			Phone:          "(555) 000-0000",
			IsActive:       true,
			IsDemo:         true,
			CustomRoles:    []string{},
			CreatedAt:      time.Now().UTC(),
		}
		if _, err := dealerships.InsertOne(context.Background(), demoDealership); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision demo dealership"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error looking up demo dealership"})
		return
	}

	var demoUser models.User
	err = users.FindOne(context.Background(), bson.M{"email": "demo@keyflow.app", "is_demo": true}).Decode(&demoUser)
	if err == mongo.ErrNoDocuments {
		hashed, hashErr := auth.HashPassword("demo123")
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision demo user"})
			return
		}
		demoUser = models.User{
			ID:           uuid.New().String(),
			Email:        "demo@keyflow.app",
			Password:     hashed,
			Name:         "Demo Admin",
			Role:         models.RoleDealershipAdmin,
			DealershipID: demoDealership.ID,
			IsDemo:       true,
			CreatedAt:    time.Now().UTC(),
		}
		if _, err := users.InsertOne(context.Background(), demoUser); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision demo user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error looking up demo user"})
		return
	}

	h.tokenResponse(c, demoUser, false)
}

// DemoLimits reports demo-tenant usage against the configured caps.
func (h *AuthHandler) DemoLimits(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !user.IsDemo {
		c.JSON(http.StatusOK, gin.H{"is_demo": false})
		return
	}

	keyCount, err := h.DB.Collection("keys").CountDocuments(context.Background(),
		bson.M{"dealership_id": user.DealershipID, "is_active": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error counting keys"})
		return
	}

	userCount, err := h.DB.Collection("users").CountDocuments(context.Background(),
		bson.M{"dealership_id": user.DealershipID, "is_demo": bson.M{"$ne": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error counting users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_demo":       true,
		"max_keys":      h.Cfg.Demo.MaxKeys,
		"current_keys":  keyCount,
		"can_add_keys":  keyCount < int64(h.Cfg.Demo.MaxKeys),
		"max_users":     h.Cfg.Demo.MaxUsers,
		"current_users": userCount,
		"can_add_users": userCount < int64(h.Cfg.Demo.MaxUsers),
	})
}
