// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
	"complaintdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "complaintdesk"

	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Claims is the session token payload.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Issue returns a signed token for user.
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse verifies raw and returns its claims.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	key := func(*jwt.Token) (any, error) { return t.Secret, nil }
	token, err := jwt.ParseWithClaims(raw, claims, key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// UserLookup loads the current account behind a session.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Auth rejects requests without a valid bearer token and stores the session
// in the gin context. Browsers cannot set headers on websocket upgrades, so a
// token query parameter is accepted as well.
//
// When users is set the account is reloaded on every request: deleted users
// are rejected and the stored role replaces the one signed into the token.
func Auth(tokens *Tokens, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		role := claims.Role
		if users != nil {
			user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
				return
			case err != nil:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			role = user.Role
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// Actor returns the session set by Auth.
func Actor(c *gin.Context) policy.Actor {
	var actor policy.Actor
	if v, ok := c.Get(ctxUserID); ok {
		actor.UserID, _ = v.(uint)
	}
	if v, ok := c.Get(ctxRole); ok {
		actor.Role, _ = v.(models.Role)
	}
	return actor
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
