package services

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"resto_pos_backend/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRequest is the payload for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token handed to the terminal.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AuthService authenticates the single configured operator account and issues
// session tokens.
type AuthService struct {
	username     string
	passwordHash string
	password     string
}

// NewAuthService configures the operator account. A bcrypt hash takes
// precedence; the plain password is a fallback for local setups without one.
func NewAuthService(username, passwordHash, password string) *AuthService {
	return &AuthService{username: username, passwordHash: passwordHash, password: password}
}

// Login verifies the credentials and returns a signed session token.
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if !s.passwordMatches(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateSessionToken(s.username)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Username: s.username}, nil
}

func (s *AuthService) passwordMatches(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}

// HashPassword produces a bcrypt hash suitable for the operator password
// configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
