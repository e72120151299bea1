package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"online-canteen-api/logger"
	"online-canteen-api/models"
	"online-canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxRoles  = "roles"
	ctxRole   = "role"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID uint              `json:"user_id"`
	Email  string            `json:"email"`
	Roles  []models.RoleName `json:"roles"`
	Role   models.RoleName   `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed JWT carrying the user's current roles
func (m *JWTManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
		Role:   user.PrimaryRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates signature and expiry
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserLoader resolves the caller's account as currently stored
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthRequired validates the JWT, then loads the caller so role checks see the
// stored roles rather than the ones present when the token was issued. A token
// for a deleted account is rejected with 401.
func AuthRequired(m *JWTManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := m.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			} else {
				logger.FromGin(c).Error("load caller failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}

		roles := user.RoleNames()
		c.Set(ctxUserID, user.ID)
		c.Set(ctxEmail, user.Email)
		c.Set(ctxRoles, roles)
		c.Set(ctxRole, models.PrimaryRole(roles))
		c.Next()
	}
}

// RoleRequired enforces that caller holds at least one of the allowed roles
func RoleRequired(roles ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ctxRoles); !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if HasRole(c, r) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.RoleName) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get(ctxUserID)
	id, _ := val.(uint)
	return id
}

// GetRoles extracts the caller's roles from context
func GetRoles(c *gin.Context) []models.RoleName {
	val, _ := c.Get(ctxRoles)
	roles, _ := val.([]models.RoleName)
	return roles
}

// GetRole is the caller's primary role
func GetRole(c *gin.Context) models.RoleName {
	return models.PrimaryRole(GetRoles(c))
}

func HasRole(c *gin.Context, role models.RoleName) bool {
	for _, r := range GetRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}
