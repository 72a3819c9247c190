package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"keyflow-api-server/internal/auth"
	"keyflow-api-server/internal/models"
)

// ContextUserKey is where Authenticate stores the caller's user document.
const ContextUserKey = "current_user"

// Authenticate validates the bearer token and loads the referenced user. A
// token whose user has since been deleted is rejected, so revocation is as
// simple as removing the user document.
func Authenticate(db *mongo.Database, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User
		err = db.Collection("users").FindOne(context.Background(), bson.M{"id": claims.UserID}).Decode(&user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// Authorize rejects callers whose role is not in the allowed set. Must run
// after Authenticate.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userInterface, exists := c.Get(ContextUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
			return
		}

		user, ok := userInterface.(models.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User has an invalid type"})
			return
		}

		for _, role := range allowedRoles {
			if role == user.Role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(c *gin.Context) models.User {
	user, _ := c.MustGet(ContextUserKey).(models.User)
	return user
}
