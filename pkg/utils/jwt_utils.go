package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies operator session tokens. Populated from the
// environment at startup via SetJWTSecret.
var jwtSecretKey = []byte("resto-pos-dev-secret")

// SetJWTSecret overrides the signing key. Call once at startup before any
// token is issued.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecretKey = []byte(secret)
	}
}

// SessionTokenTTL is how long an operator login stays valid. A POS terminal
// is logged in for a full shift, so this is generous.
const SessionTokenTTL = 12 * time.Hour

// Claims defines the JWT claims structure for the single-operator session.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a new JWT for a logged-in operator.
func GenerateSessionToken(username string) (string, error) {
	expirationTime := time.Now().Add(SessionTokenTTL)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "resto-pos-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
