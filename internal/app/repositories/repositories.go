package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolvax/internal/app/models"
)

// StudentMutation edits a locked student; returning an error aborts the write
type StudentMutation func(s *models.Student) error

// DriveMutation edits a locked drive; returning an error aborts the write
type DriveMutation func(d *models.VaccinationDrive) error

// CoordinatorRepository stores coordinator accounts
type CoordinatorRepository interface {
	Create(ctx context.Context, c *models.Coordinator) error
	GetByID(ctx context.Context, id string) (*models.Coordinator, error)
	GetByEmail(ctx context.Context, email string) (*models.Coordinator, error)
}

// StudentRepository stores the roster. Every read and write is scoped to a coordinator;
// a student owned by someone else is reported as not found.
type StudentRepository interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, coordinatorID, id string) (*models.Student, error)
	GetByIDs(ctx context.Context, coordinatorID string, ids []string) ([]*models.Student, error)
	List(ctx context.Context, coordinatorID string, filter models.StudentFilter) ([]*models.Student, error)
	// Update loads the student with a row lock, applies fn and persists the result atomically
	Update(ctx context.Context, coordinatorID, id string, fn StudentMutation) (*models.Student, error)
	Delete(ctx context.Context, coordinatorID, id string) error
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
}

// DriveRepository stores vaccination drives and their enrollments
type DriveRepository interface {
	Create(ctx context.Context, d *models.VaccinationDrive) error
	GetByID(ctx context.Context, coordinatorID, id string) (*models.VaccinationDrive, error)
	// List returns drives ordered by date ascending
	List(ctx context.Context, coordinatorID string, filter models.DriveFilter) ([]*models.VaccinationDrive, error)
	// HasConflict reports another drive of the coordinator at location with date in [from, to)
	HasConflict(ctx context.Context, coordinatorID, location string, from, to time.Time, excludeID string) (bool, error)
	// Update loads the drive with a row lock, applies fn and persists the drive and its enrollments atomically
	Update(ctx context.Context, coordinatorID, id string, fn DriveMutation) (*models.VaccinationDrive, error)
	// Delete removes the drive when fn, run against the locked drive, allows it
	Delete(ctx context.Context, coordinatorID, id string, fn DriveMutation) error
}

// Pinger checks the backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Coordinators CoordinatorRepository
	Students     StudentRepository
	Drives       DriveRepository
	Health       Pinger
}

// NewRepositories initializes the Postgres repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Coordinators: NewCoordinatorRepository(pool),
		Students:     NewStudentRepository(pool),
		Drives:       NewDriveRepository(pool),
		Health:       pool,
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
