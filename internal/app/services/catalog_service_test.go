package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/fixture"
)

func newCatalogFixture(t *testing.T) (*repositories.Repositories, *CatalogService) {
	t.Helper()
	repos := fixture.NewRepositories(fixture.NewStore())
	return repos, NewCatalogService(repos.Colleges, repos.Cohorts, zerolog.Nop())
}

func createMentor(t *testing.T, repos *repositories.Repositories) int64 {
	t.Helper()
	id, err := repos.Users.Create(context.Background(), &models.User{
		GitLabID: "mentor-" + t.Name(),
		Name:     "Mentor",
		Email:    "mentor-" + t.Name() + "@example.com",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create mentor: %v", err)
	}
	return id
}

func TestCreateCollegeTrimsAndPersists(t *testing.T) {
	repos, svc := newCatalogFixture(t)
	mentorID := createMentor(t, repos)
	ctx := context.Background()

	college, err := svc.CreateCollege(ctx, mentorID, dto.CreateCollegeRequest{
		Name:     "  Acme Tech  ",
		Location: "Istanbul",
	})
	if err != nil {
		t.Fatalf("CreateCollege: %v", err)
	}
	if college.Name != "Acme Tech" {
		t.Errorf("name = %q, want trimmed", college.Name)
	}
	if college.MentorID != mentorID {
		t.Errorf("mentorID = %d, want %d", college.MentorID, mentorID)
	}
	if !college.IsActive {
		t.Error("new college must be active")
	}

	if _, err := svc.CreateCollege(ctx, mentorID, dto.CreateCollegeRequest{Name: "   "}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank name error = %v, want ErrValidationFailed", err)
	}
}

func TestCreateCohortDefaultsCapacity(t *testing.T) {
	repos, svc := newCatalogFixture(t)
	mentorID := createMentor(t, repos)
	ctx := context.Background()

	college, err := svc.CreateCollege(ctx, mentorID, dto.CreateCollegeRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateCollege: %v", err)
	}

	cohort, err := svc.CreateCohort(ctx, mentorID, college.ID, dto.CreateCohortRequest{Name: "Fall 2026"})
	if err != nil {
		t.Fatalf("CreateCohort: %v", err)
	}
	if cohort.Capacity != models.CohortCapacityDefault {
		t.Errorf("capacity = %d, want default %d", cohort.Capacity, models.CohortCapacityDefault)
	}
	if cohort.Occupancy != 0 {
		t.Errorf("occupancy = %d, want 0", cohort.Occupancy)
	}
}

func TestCreateCohortChecksOwnershipAndDates(t *testing.T) {
	repos, svc := newCatalogFixture(t)
	mentorID := createMentor(t, repos)
	ctx := context.Background()

	college, err := svc.CreateCollege(ctx, mentorID, dto.CreateCollegeRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateCollege: %v", err)
	}

	otherID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "other", Name: "O", Email: "o@example.com", IsActive: true})
	if _, err := svc.CreateCohort(ctx, otherID, college.ID, dto.CreateCohortRequest{Name: "Fall"}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign mentor error = %v, want ErrPermissionDenied", err)
	}

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	if _, err := svc.CreateCohort(ctx, mentorID, college.ID, dto.CreateCohortRequest{
		Name:      "Fall",
		StartDate: &start,
		EndDate:   &end,
	}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("end-before-start error = %v, want ErrValidationFailed", err)
	}
}

func TestListCohortsRequiresExistingCollege(t *testing.T) {
	_, svc := newCatalogFixture(t)

	if _, err := svc.ListCohorts(context.Background(), 99); !errors.Is(err, apperrors.ErrCollegeNotFound) {
		t.Errorf("error = %v, want ErrCollegeNotFound", err)
	}
}
