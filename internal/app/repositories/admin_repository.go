package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/dberrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/logger"
)

// AdminRepository handles administrator database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves an administrator by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin by email SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin := &models.Admin{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.Error().Err(err).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin by email: %w", err)
	}

	return admin, nil
}

// Create inserts a new administrator. A duplicate email is reported as
// an already-exists condition so seeding stays idempotent.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("email", "password_hash").
		Values(admin.Email, admin.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailTaken
		}
		logger.Error().Err(err).Msg("Error executing create admin query")
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// EmailExists reports whether an administrator with the email exists
func (r *AdminRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building admin existence SQL")
		return false, fmt.Errorf("failed to build admin existence query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Msg("Error executing admin existence query")
		return false, fmt.Errorf("error checking admin existence: %w", err)
	}

	return true, nil
}
