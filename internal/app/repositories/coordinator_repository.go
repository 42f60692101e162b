package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/dberrors"
	"github.com/yigit/schoolvax/internal/pkg/logger"
)

var coordinatorColumns = []string{"id", "name", "email", "password_hash", "school", "created_at", "updated_at"}

// PgCoordinatorRepository handles coordinator database operations
type PgCoordinatorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCoordinatorRepository creates a new coordinator repository
func NewCoordinatorRepository(db *pgxpool.Pool) *PgCoordinatorRepository {
	return &PgCoordinatorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a coordinator
func (r *PgCoordinatorRepository) Create(ctx context.Context, c *models.Coordinator) error {
	sql, args, err := r.sb.Insert("coordinators").
		Columns(coordinatorColumns...).
		Values(c.ID, c.Name, strings.ToLower(c.Email), c.PasswordHash, c.School, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create coordinator query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCoordinatorEmail) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", c.Email).Msg("Error creating coordinator")
		return fmt.Errorf("error creating coordinator: %w", err)
	}

	return nil
}

// GetByID retrieves a coordinator by ID
func (r *PgCoordinatorRepository) GetByID(ctx context.Context, id string) (*models.Coordinator, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a coordinator by email, case-insensitively
func (r *PgCoordinatorRepository) GetByEmail(ctx context.Context, email string) (*models.Coordinator, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *PgCoordinatorRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Coordinator, error) {
	sql, args, err := r.sb.Select(coordinatorColumns...).
		From("coordinators").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get coordinator query: %w", err)
	}

	c := &models.Coordinator{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.School, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error getting coordinator: %w", err)
	}

	return c, nil
}
