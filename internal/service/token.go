package service

import "github.com/rookgm/pointsclub/internal/models"

type TokenService interface {
	CreateToken(admin *models.Admin) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
