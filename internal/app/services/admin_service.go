package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

// AdminService handles platform administration
type AdminService struct {
	users    repositories.UserStore
	colleges repositories.CollegeStore
	cohorts  repositories.CohortStore
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(users repositories.UserStore, colleges repositories.CollegeStore, cohorts repositories.CohortStore, logger zerolog.Logger) *AdminService {
	return &AdminService{
		users:    users,
		colleges: colleges,
		cohorts:  cohorts,
		logger:   logger,
	}
}

// ListUsers returns all active users
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// AssignRole replaces a user's role assignment by admin decision. The
// intern role is scoped to a college and requires one; the college must
// exist. The tuple is replaced whole, there is no partial role patching.
func (s *AdminService) AssignRole(ctx context.Context, adminID, targetID int64, role models.RoleType, collegeID *int64) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleMentor, models.RoleIntern:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrBadRequest, role)
	}

	if role == models.RoleIntern {
		if collegeID == nil {
			return nil, apperrors.NewValidationError("intern role requires a college", map[string]interface{}{
				"collegeId": "required",
			})
		}
		if _, err := s.colleges.GetByID(ctx, *collegeID); err != nil {
			return nil, err
		}
	}

	assignment := models.RoleAssignment{
		Role:       role,
		CollegeID:  collegeID,
		AssignedBy: strconv.FormatInt(adminID, 10),
	}
	if err := s.users.AssignRole(ctx, targetID, assignment); err != nil {
		return nil, err
	}
	if err := s.users.SetOnboardingComplete(ctx, targetID); err != nil {
		return nil, fmt.Errorf("failed to close onboarding: %w", err)
	}

	s.logger.Info().
		Int64("adminId", adminID).
		Int64("userId", targetID).
		Str("role", string(role)).
		Msg("Role assigned by admin")
	return s.users.GetByID(ctx, targetID)
}

// DeactivateUser disables an account. Admins cannot deactivate themselves.
func (s *AdminService) DeactivateUser(ctx context.Context, adminID, targetID int64) error {
	if adminID == targetID {
		return apperrors.NewForbiddenError("cannot deactivate your own account")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.users.Deactivate(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info().Int64("adminId", adminID).Int64("userId", targetID).Msg("User deactivated")
	return nil
}

// ListColleges returns all active colleges with their cohorts for the admin
// overview
func (s *AdminService) ListColleges(ctx context.Context) ([]*models.College, error) {
	colleges, err := s.colleges.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, college := range colleges {
		cohorts, err := s.cohorts.ListByCollege(ctx, college.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cohorts: %w", err)
		}
		college.Cohorts = cohorts
	}
	return colleges, nil
}
