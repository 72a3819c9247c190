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

	"keyflow-api-server/config"
	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/auth"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/scope"
)

type InviteHandler struct {
	DB  *mongo.Database
	Cfg config.Config
}

type CreateInviteRequest struct {
	DealershipID  string `json:"dealership_id" binding:"required"`
	Role          string `json:"role"`
	ExpiresInDays int    `json:"expires_in_days"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateInvite issues a single-use registration token. Admins may only invite
// into their own dealership, and never at admin level.
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if !scope.CanAccess(caller.Role, caller.DealershipID, req.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot create invites for other dealerships"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleDealershipAdmin
	}
	if role != models.RoleDealershipAdmin && role != models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be 'dealership_admin' or 'user'"})
		return
	}
	if caller.Role == models.RoleDealershipAdmin && role == models.RoleDealershipAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins cannot create admin invites. Contact the owner."})
		return
	}

	var dealership models.Dealership
	err := h.DB.Collection("dealerships").FindOne(context.Background(), bson.M{"id": req.DealershipID}).Decode(&dealership)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dealership not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dealership"})
		}
		return
	}

	expiresInDays := req.ExpiresInDays
	if expiresInDays <= 0 {
		expiresInDays = 7
	}

	now := time.Now().UTC()
	invite := models.InviteToken{
		ID:             uuid.New().String(),
		Token:          uuid.New().String(),
		DealershipID:   req.DealershipID,
		DealershipName: dealership.Name,
		Role:           role,
		CreatedBy:      caller.ID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
	}

	if _, err := h.DB.Collection("invites").InsertOne(context.Background(), invite); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// GetInvites lists invites, newest first, scoped to the caller.
func (h *InviteHandler) GetInvites(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	filter := scope.DealershipFilter(caller.Role, caller.DealershipID, c.Query("dealership_id"))

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.DB.Collection("invites").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query invites"})
		return
	}
	defer cursor.Close(context.Background())

	var invites []models.InviteToken
	if err = cursor.All(context.Background(), &invites); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode invites"})
		return
	}
	if invites == nil {
		invites = []models.InviteToken{}
	}

	c.JSON(http.StatusOK, invites)
}

// findUsableInvite loads an invite and rejects used or expired ones.
func (h *InviteHandler) findUsableInvite(c *gin.Context, token string) (*models.InviteToken, bool) {
	var invite models.InviteToken
	err := h.DB.Collection("invites").FindOne(context.Background(), bson.M{"token": token}).Decode(&invite)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite token"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invite"})
		}
		return nil, false
	}
	if invite.IsUsed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This invite has already been used"})
		return nil, false
	}
	if time.Now().UTC().After(invite.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This invite has expired"})
		return nil, false
	}
	return &invite, true
}

// ValidateInvite is the public pre-registration check.
func (h *InviteHandler) ValidateInvite(c *gin.Context) {
	invite, ok := h.findUsableInvite(c, c.Param("token"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":           true,
		"dealership_name": invite.DealershipName,
		"role":            invite.Role,
	})
}

// AcceptInvite consumes a token, creates the user, and logs them in. The
// token update is last-write-wins; there is no transactional guard against a
// double-use race.
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, ok := h.findUsableInvite(c, req.Token)
	if !ok {
		return
	}

	users := h.DB.Collection("users")
	count, err := users.CountDocuments(context.Background(), bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for email"})
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

	user := models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Password:     hashed,
		Name:         req.Name,
		Role:         invite.Role,
		DealershipID: invite.DealershipID,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := users.InsertOne(context.Background(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	_, err = h.DB.Collection("invites").UpdateOne(context.Background(),
		bson.M{"token": req.Token},
		bson.M{"$set": bson.M{"is_used": true, "used_by": user.ID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to consume invite"})
		return
	}

	token, err := auth.GenerateToken([]byte(h.Cfg.JWT.Secret), user, false)
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

// DeleteInvite removes an invite; admins only within their own dealership.
func (h *InviteHandler) DeleteInvite(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var invite models.InviteToken
	err := h.DB.Collection("invites").FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&invite)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invite"})
		}
		return
	}

	if !scope.CanAccess(caller.Role, caller.DealershipID, invite.DealershipID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete invites for other dealerships"})
		return
	}

	if _, err := h.DB.Collection("invites").DeleteOne(context.Background(), bson.M{"id": invite.ID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite deleted"})
}
