package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todoai/domain/dto"
	"todoai/domain/models"
	"todoai/domain/repositories"
	"todoai/domain/services"
	"todoai/pkg/apperrors"
	"todoai/pkg/logger"
	"todoai/pkg/utils"
)

// ErrInvalidCredentials - login ไม่ผ่าน (ไม่บอกว่า email หรือ password ผิด)
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewUserService(userRepo repositories.UserRepository, jwtSecret string, jwtTTL time.Duration) services.UserService {
	if jwtTTL <= 0 {
		jwtTTL = 7 * 24 * time.Hour
	}
	return &UserServiceImpl{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		logger.WarnContext(ctx, "Email already exists", "email", email)
		return nil, apperrors.Conflict("email already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.Store("find user by email", err)
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		logger.WarnContext(ctx, "Username already exists", "username", username)
		return nil, apperrors.Conflict("username already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.Store("find user by username", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, apperrors.Store("create user", err)
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.WarnContext(ctx, "Login failed - email not found", "email", email)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperrors.Store("find user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return token, user, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Store("get user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GenerateJWT(user *models.User) (string, error) {
	return utils.GenerateToken(utils.UserContext{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, s.jwtSecret, s.jwtTTL, time.Now())
}

func (s *UserServiceImpl) ValidateJWT(token string) (*utils.UserContext, error) {
	return utils.ValidateTokenStringToUUID(token, s.jwtSecret)
}
