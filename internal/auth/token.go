package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

const resetPurpose = "password_reset"

// ErrInvalidToken is returned for expired, malformed, or mis-purposed tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies signed JWTs for authenticated users.
type TokenManager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	resetTTL time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetimes.
func NewTokenManager(secret, issuer string, ttl, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		resetTTL: resetTTL,
	}
}

// Generate issues a signed access token for the provided user.
func (t *TokenManager) Generate(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// GenerateReset issues a short-lived token that only authorizes a password
// reset for the given user.
func (t *TokenManager) GenerateReset(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":     t.issuer,
		"sub":     fmt.Sprintf("%d", user.ID),
		"purpose": resetPurpose,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(t.resetTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies an access token and returns the user id it carries.
// Reset tokens are rejected here.
func (t *TokenManager) Parse(tokenString string) (int64, error) {
	claims, err := t.parseClaims(tokenString)
	if err != nil {
		return 0, err
	}
	if purpose, _ := claims["purpose"].(string); purpose != "" {
		return 0, ErrInvalidToken
	}
	return subjectID(claims)
}

// ParseReset verifies a password-reset token and returns the user id.
func (t *TokenManager) ParseReset(tokenString string) (int64, error) {
	claims, err := t.parseClaims(tokenString)
	if err != nil {
		return 0, err
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetPurpose {
		return 0, ErrInvalidToken
	}
	return subjectID(claims)
}

func (t *TokenManager) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func subjectID(claims jwt.MapClaims) (int64, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
