package services

import (
	"context"

	"github.com/google/uuid"

	"todoai/domain/dto"
	"todoai/domain/models"
	"todoai/pkg/utils"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
	ValidateJWT(token string) (*utils.UserContext, error)
}
