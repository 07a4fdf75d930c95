package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
	"github.com/toma828/HinaBaby/internal/pkg/auth"
)

// AuthService defines the interface for registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new account. Username and email are pre-checked
// for availability; the database unique constraints catch the race
// where two registrations with the same identity interleave, so the
// conflict is reported either way.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	taken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	taken, err = s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := models.RoleStudent
	if req.IsTeacher {
		role = models.RoleTeacher
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		RoleType: role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", user.Username).
		Int64("userID", user.ID).
		Str("roleType", string(user.RoleType)).
		Msg("Account registered")

	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsTeacher: user.IsTeacher(),
	}, nil
}

// Login authenticates an account by username and password and issues a
// bearer token. A missing account and a wrong password produce the same
// error; a disabled account is reported distinctly.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	accessToken, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("Account logged in")

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		IsTeacher:   user.IsTeacher(),
	}, nil
}
