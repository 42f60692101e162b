package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

// AuthService defines coordinator account operations
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Verify(ctx context.Context, coordinatorID string) (*dto.VerifyResponse, error)
}

type authServiceImpl struct {
	coordinatorRepo repositories.CoordinatorRepository
	jwtService      *auth.JWTService
	now             Clock
	logger          zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	coordinatorRepo repositories.CoordinatorRepository,
	jwtService *auth.JWTService,
	now Clock,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		coordinatorRepo: coordinatorRepo,
		jwtService:      jwtService,
		now:             defaultClock(now),
		logger:          logger,
	}
}

// Signup registers a coordinator and returns a token for it
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	school := strings.TrimSpace(req.School)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || school == "" || email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("Name, email, password and school are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now().UTC()
	coordinator := &models.Coordinator{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		School:       school,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.coordinatorRepo.Create(ctx, coordinator); err != nil {
		return nil, err
	}

	s.logger.Info().Str("coordinatorId", coordinator.ID).Str("email", email).Msg("Coordinator registered")
	return s.issue(coordinator)
}

// Login checks credentials. An unknown email and a wrong password are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	coordinator, err := s.coordinatorRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(coordinator.PasswordHash, req.Password) {
		s.logger.Debug().Str("coordinatorId", coordinator.ID).Msg("Login rejected: password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(coordinator)
}

// Verify resolves the coordinator behind an already validated token
func (s *authServiceImpl) Verify(ctx context.Context, coordinatorID string) (*dto.VerifyResponse, error) {
	coordinator, err := s.coordinatorRepo.GetByID(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{Coordinator: dto.NewCoordinatorResponse(coordinator)}, nil
}

func (s *authServiceImpl) issue(c *models.Coordinator) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(c.ID, c.Email)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{
		Token:       token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Coordinator: dto.NewCoordinatorResponse(c),
	}, nil
}
