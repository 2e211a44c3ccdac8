package service

import (
	"context"
	"crypto/subtle"

	"github.com/rookgm/pointsclub/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the back-office admin
type AuthService struct {
	admin models.Admin
	token TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(admin models.Admin, token TokenService) *AuthService {
	return &AuthService{
		admin: admin,
		token: token,
	}
}

// Login checks credentials and returns session token
func (as *AuthService) Login(_ context.Context, login, password string) (string, error) {
	if as.admin.Login == "" || as.admin.PasswordHash == "" {
		return "", models.ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(login), []byte(as.admin.Login)) != 1 {
		return "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(as.admin.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.token.CreateToken(&as.admin)
}
