package service

import (
	"context"
	"testing"

	"github.com/rookgm/pointsclub/internal/auth"
	"github.com/rookgm/pointsclub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("doce-de-leite"), bcrypt.MinCost)
	require.NoError(t, err)

	token := auth.NewAuthToken([]byte("secret"))
	svc := NewAuthService(models.Admin{Login: "admin", PasswordHash: string(hash)}, token)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
	}{
		{name: "valid", login: "admin", password: "doce-de-leite"},
		{name: "wrong_password", login: "admin", password: "brigadeiro", wantErr: models.ErrInvalidCredentials},
		{name: "wrong_login", login: "root", password: "doce-de-leite", wantErr: models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := svc.Login(context.Background(), tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			payload, err := token.VerifyToken(s)
			require.NoError(t, err)
			assert.Equal(t, "admin", payload.Login)
		})
	}
}

func TestAuthService_LoginNotConfigured(t *testing.T) {
	svc := NewAuthService(models.Admin{}, auth.NewAuthToken([]byte("secret")))

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
