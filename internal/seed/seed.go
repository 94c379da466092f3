package seed

import (
	"context"
	"fmt"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/app/repositories"
	"github.com/nqanh/vku-student-manager/internal/config"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/nqanh/vku-student-manager/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// EnsureDefaultAdmin creates the configured administrator account on
// first start. Subsequent starts find it and do nothing.
func EnsureDefaultAdmin(ctx context.Context, repo *repositories.AdminRepository, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn().Msg("No default admin configured, skipping seed")
		return nil
	}

	email := validation.NormalizeEmail(cfg.Admin.Email)
	exists, err := repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		logger.Debug().Str("email", email).Msg("Default admin already present")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{Email: email, PasswordHash: hash}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Info().Str("email", email).Msg("Default admin created")
	return nil
}
