package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/schoolvax/internal/app/models"
	appRepos "github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

// Coordinator describes the demo account created at startup
type Coordinator struct {
	Name     string
	Email    string
	Password string
	School   string
}

// CreateDefaultData creates the demo coordinator if no account uses its email yet
func CreateDefaultData(ctx context.Context, coordinatorRepo appRepos.CoordinatorRepository, demo Coordinator, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(demo.Email))
	lgr.Info().Str("email", email).Msg("Checking/Creating demo coordinator...")

	_, err := coordinatorRepo.GetByEmail(ctx, email)
	if err == nil {
		lgr.Info().Msg("Demo coordinator already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("failed to look up demo coordinator: %w", err)
	}

	hash, err := auth.HashPassword(demo.Password)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now().UTC()
	coordinator := &appModels.Coordinator{
		ID:           uuid.NewString(),
		Name:         demo.Name,
		Email:        email,
		PasswordHash: hash,
		School:       demo.School,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := coordinatorRepo.Create(ctx, coordinator); err != nil {
		// another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create demo coordinator: %w", err)
	}

	lgr.Info().Str("coordinatorId", coordinator.ID).Msg("Demo coordinator created successfully")
	return nil
}
