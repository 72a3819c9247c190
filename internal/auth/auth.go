package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"keyflow-api-server/internal/models"
)

// Session lengths. "Remember me" stretches the session to a week.
const (
	SessionTTL    = 5 * time.Hour
	RememberMeTTL = 7 * 24 * time.Hour
)

// JWTClaims defines the payload for the session token.
type JWTClaims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
	DealershipID string `json:"dealership_id,omitempty"`
	RememberMe   bool   `json:"remember_me"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a session token for the given user.
func GenerateToken(secret []byte, user models.User, rememberMe bool) (string, error) {
	ttl := SessionTTL
	if rememberMe {
		ttl = RememberMeTTL
	}
	claims := &JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		DealershipID: user.DealershipID,
		RememberMe:   rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(secret []byte, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
