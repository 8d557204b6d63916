package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/config"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/auth"
)

// CreateBootstrapAdmin creates the configured admin account if it does not
// exist yet. The admin is the only identity with a password; everyone else
// comes in through GitLab. Its role assignment is marked as granted by the
// system, not by a user.
func CreateBootstrapAdmin(ctx context.Context, cfg *config.Config, users repositories.UserStore, lgr zerolog.Logger) error {
	email := cfg.Bootstrap.AdminEmail
	if email == "" || cfg.Bootstrap.AdminPassword == "" {
		lgr.Info().Msg("Bootstrap admin not configured, skipping")
		return nil
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		lgr.Info().Str("email", email).Msg("Bootstrap admin already exists, skipping creation")
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to check for bootstrap admin: %w", err)
	}

	password, err := auth.HashPassword(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	name := cfg.Bootstrap.AdminName
	if name == "" {
		name = "System Administrator"
	}

	role := models.RoleAdmin
	assignedBy := models.SystemAssigner
	admin := &models.User{
		Name:           name,
		Email:          email,
		Password:       &password,
		Role:           &role,
		AssignedBy:     &assignedBy,
		OnboardingDone: true,
		IsActive:       true,
	}

	adminID, err := users.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	lgr.Info().Int64("adminId", adminID).Str("email", email).Msg("Bootstrap admin created")
	return nil
}
