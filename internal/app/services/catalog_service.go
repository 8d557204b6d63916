package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

// CatalogService handles colleges and cohorts outside the onboarding flow
type CatalogService struct {
	colleges repositories.CollegeStore
	cohorts  repositories.CohortStore
	logger   zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(colleges repositories.CollegeStore, cohorts repositories.CohortStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		colleges: colleges,
		cohorts:  cohorts,
		logger:   logger,
	}
}

// validateCollegeInput validates college creation data
func validateCollegeInput(req dto.CreateCollegeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("college name cannot be empty", map[string]interface{}{
			"name": "required",
		})
	}
	return nil
}

// buildCohort validates cohort creation data and returns the model to
// persist. Capacity defaults when omitted and must stay within bounds; the
// end date must follow the start date when both are set.
func buildCohort(collegeID int64, req dto.CreateCohortRequest) (*models.Cohort, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("cohort name cannot be empty", map[string]interface{}{
			"name": "required",
		})
	}

	capacity := models.CohortCapacityDefault
	if req.Capacity != nil {
		capacity = *req.Capacity
	}
	if capacity < models.CohortCapacityMin || capacity > models.CohortCapacityMax {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("capacity must be between %d and %d", models.CohortCapacityMin, models.CohortCapacityMax),
			map[string]interface{}{"capacity": capacity},
		)
	}

	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date", map[string]interface{}{
			"endDate": "must be after startDate",
		})
	}

	return &models.Cohort{
		CollegeID:   collegeID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    capacity,
	}, nil
}

// ListCollegesForMentor returns the colleges the mentor owns
func (s *CatalogService) ListCollegesForMentor(ctx context.Context, mentorID int64) ([]*models.College, error) {
	return s.colleges.ListByMentor(ctx, mentorID)
}

// ListActiveColleges returns the colleges interns can browse
func (s *CatalogService) ListActiveColleges(ctx context.Context) ([]*models.College, error) {
	return s.colleges.ListActive(ctx)
}

// GetCollege loads a single college
func (s *CatalogService) GetCollege(ctx context.Context, id int64) (*models.College, error) {
	return s.colleges.GetByID(ctx, id)
}

// CreateCollege creates an additional college owned by the mentor
func (s *CatalogService) CreateCollege(ctx context.Context, mentorID int64, req dto.CreateCollegeRequest) (*models.College, error) {
	if err := validateCollegeInput(req); err != nil {
		return nil, err
	}

	college := &models.College{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    req.Location,
		Website:     req.Website,
		MentorID:    mentorID,
	}
	id, err := s.colleges.Create(ctx, college)
	if err != nil {
		return nil, fmt.Errorf("failed to create college: %w", err)
	}
	return s.colleges.GetByID(ctx, id)
}

// ListCohorts returns the cohorts of a college. The college must exist.
func (s *CatalogService) ListCohorts(ctx context.Context, collegeID int64) ([]*models.Cohort, error) {
	if _, err := s.colleges.GetByID(ctx, collegeID); err != nil {
		return nil, err
	}
	return s.cohorts.ListByCollege(ctx, collegeID)
}

// CreateCohort adds a cohort to a college the mentor owns
func (s *CatalogService) CreateCohort(ctx context.Context, mentorID, collegeID int64, req dto.CreateCohortRequest) (*models.Cohort, error) {
	college, err := s.colleges.GetByID(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	if college.MentorID != mentorID {
		return nil, apperrors.NewForbiddenError("only the owning mentor can add cohorts")
	}

	cohort, err := buildCohort(collegeID, req)
	if err != nil {
		return nil, err
	}
	id, err := s.cohorts.Create(ctx, cohort)
	if err != nil {
		return nil, fmt.Errorf("failed to create cohort: %w", err)
	}
	return s.cohorts.GetByID(ctx, id)
}
