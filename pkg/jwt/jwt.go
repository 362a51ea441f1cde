// Package jwt signs and checks the HS256 bearer tokens handed to tills.
package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	issuer          = "go-sales-desk"
	defaultLifetime = 12 * time.Hour
	defaultSecret   = "your-super-secret-key-change-in-production"
)

// Subject is what a token says about its holder.
type Subject struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	RoleCode     string
	Privileges   []string
	TokenVersion string
}

type Claims struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RoleCode     string    `json:"role_code"`
	Privileges   []string  `json:"privileges"`
	TokenVersion string    `json:"token_version"`
	jwt.RegisteredClaims
}

var (
	mu       sync.RWMutex
	secret   = []byte(defaultSecret)
	lifetime = defaultLifetime
)

// Configure sets the signing secret and token lifetime. Empty or zero values
// keep the current setting.
func Configure(key string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if key != "" {
		secret = []byte(key)
	}
	if ttl > 0 {
		lifetime = ttl
	}
}

func settings() ([]byte, time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return secret, lifetime
}

func Sign(sub Subject) (string, error) {
	key, ttl := settings()
	now := time.Now()
	claims := &Claims{
		UserID:       sub.UserID,
		Email:        sub.Email,
		Name:         sub.Name,
		RoleCode:     sub.RoleCode,
		Privileges:   sub.Privileges,
		TokenVersion: sub.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ValidateToken returns ErrInvalidToken for every kind of failure.
func ValidateToken(token string) (*Claims, error) {
	key, _ := settings()
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
