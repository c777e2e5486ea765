package service

import (
	"context"

	"github.com/rookgm/kitchenflow/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates front of house staff and issues auth tokens.
// Staff identity itself lives in an external system; a single credential
// record injected from config stands in for it here.
type AuthService struct {
	staff models.Staff
	ts    TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(staff models.Staff, ts TokenService) *AuthService {
	return &AuthService{
		staff: staff,
		ts:    ts,
	}
}

// Login verifies staff credentials and returns a signed FOH token
func (as *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	if login != as.staff.Login {
		return "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(as.staff.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.ts.CreateToken(&models.TokenPayload{
		Login: login,
		Role:  models.RoleFOH,
	})
}
