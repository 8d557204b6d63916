package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/fixture"
)

type onboardingFixture struct {
	store   *fixture.Store
	repos   *repositories.Repositories
	service *OnboardingService
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	store := fixture.NewStore()
	repos := fixture.NewRepositories(store)
	service := NewOnboardingService(repos.Users, repos.Colleges, repos.Cohorts, repos.JoinRequests, zerolog.Nop())
	return &onboardingFixture{store: store, repos: repos, service: service}
}

func (f *onboardingFixture) createUser(t *testing.T, gitlabID string) int64 {
	t.Helper()
	id, err := f.repos.Users.Create(context.Background(), &models.User{
		GitLabID:       gitlabID,
		GitLabUsername: "user-" + gitlabID,
		Name:           "Test User",
		Email:          gitlabID + "@example.com",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func (f *onboardingFixture) createMentorWithCohort(t *testing.T, capacity int) (mentorID, collegeID, cohortID int64) {
	t.Helper()
	ctx := context.Background()

	mentorID = f.createUser(t, "mentor-"+t.Name())
	collegeID, err := f.repos.Colleges.Create(ctx, &models.College{
		Name:     "Acme Tech",
		MentorID: mentorID,
	})
	if err != nil {
		t.Fatalf("create college: %v", err)
	}
	role := models.RoleMentor
	if err := f.repos.Users.AssignRole(ctx, mentorID, models.RoleAssignment{
		Role:       role,
		CollegeID:  &collegeID,
		AssignedBy: models.SystemAssigner,
	}); err != nil {
		t.Fatalf("assign mentor role: %v", err)
	}

	cohortID, err = f.repos.Cohorts.Create(ctx, &models.Cohort{
		CollegeID: collegeID,
		Name:      "Fall 2026",
		Capacity:  capacity,
	})
	if err != nil {
		t.Fatalf("create cohort: %v", err)
	}
	return mentorID, collegeID, cohortID
}

func TestOnboardingStartsAtRoleSelection(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")

	state, err := f.service.GetState(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.State != string(models.StateRoleSelection) {
		t.Errorf("state = %s, want %s", state.State, models.StateRoleSelection)
	}
	if state.Role != "" {
		t.Errorf("role = %q, want empty", state.Role)
	}
}

func TestSelectRoleMovesToBranch(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")

	state, err := f.service.SelectRole(context.Background(), userID, models.RoleMentor)
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if state.State != string(models.StateMentorOnboarding) {
		t.Errorf("state = %s, want %s", state.State, models.StateMentorOnboarding)
	}

	// Selecting again from a branch is not a valid transition
	if _, err := f.service.SelectRole(context.Background(), userID, models.RoleIntern); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("second SelectRole error = %v, want ErrInvalidTransition", err)
	}
}

func TestSelectRoleRejectsAdmin(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")

	if _, err := f.service.SelectRole(context.Background(), userID, models.RoleAdmin); !errors.Is(err, apperrors.ErrRoleNotSelectable) {
		t.Errorf("SelectRole(admin) error = %v, want ErrRoleNotSelectable", err)
	}
}

func TestGoBackDiscardsBranch(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")
	ctx := context.Background()

	if _, err := f.service.SelectRole(ctx, userID, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	state, err := f.service.GoBack(ctx, userID)
	if err != nil {
		t.Fatalf("GoBack: %v", err)
	}
	if state.State != string(models.StateRoleSelection) {
		t.Errorf("state = %s, want %s", state.State, models.StateRoleSelection)
	}

	// After going back the other branch is selectable again
	if _, err := f.service.SelectRole(ctx, userID, models.RoleMentor); err != nil {
		t.Errorf("SelectRole after GoBack: %v", err)
	}
}

func TestMentorSetupCommitsRoleAndCollege(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")
	ctx := context.Background()

	if _, err := f.service.SelectRole(ctx, userID, models.RoleMentor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}

	capacity := 10
	college, cohort, err := f.service.SubmitMentorSetup(ctx, userID, dto.MentorSetupRequest{
		College: dto.CreateCollegeRequest{Name: "Acme Tech", Location: "Istanbul"},
		Cohort:  dto.CreateCohortRequest{Name: "Fall 2026", Capacity: &capacity},
	})
	if err != nil {
		t.Fatalf("SubmitMentorSetup: %v", err)
	}
	if college.ID == 0 || cohort.ID == 0 {
		t.Fatalf("expected persisted college and cohort, got ids %d/%d", college.ID, cohort.ID)
	}

	user, err := f.repos.Users.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Role == nil || *user.Role != models.RoleMentor {
		t.Errorf("role = %v, want MENTOR", user.Role)
	}
	if user.CollegeID == nil || *user.CollegeID != college.ID {
		t.Errorf("collegeID = %v, want %d", user.CollegeID, college.ID)
	}
	if !user.OnboardingDone {
		t.Error("onboarding should be complete")
	}

	state, err := f.service.GetState(ctx, userID)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.State != string(models.StateComplete) {
		t.Errorf("state = %s, want %s", state.State, models.StateComplete)
	}

	// Completed identities cannot re-enter the sequence
	if _, err := f.service.SelectRole(ctx, userID, models.RoleIntern); !errors.Is(err, apperrors.ErrOnboardingComplete) {
		t.Errorf("SelectRole after complete error = %v, want ErrOnboardingComplete", err)
	}
	if _, err := f.service.GoBack(ctx, userID); !errors.Is(err, apperrors.ErrOnboardingComplete) {
		t.Errorf("GoBack after complete error = %v, want ErrOnboardingComplete", err)
	}
}

func TestMentorSetupValidation(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	badCapacity := 101
	cases := []struct {
		name string
		req  dto.MentorSetupRequest
	}{
		{"empty college name", dto.MentorSetupRequest{
			College: dto.CreateCollegeRequest{Name: "   "},
			Cohort:  dto.CreateCohortRequest{Name: "Fall"},
		}},
		{"empty cohort name", dto.MentorSetupRequest{
			College: dto.CreateCollegeRequest{Name: "Acme"},
			Cohort:  dto.CreateCohortRequest{Name: ""},
		}},
		{"capacity out of range", dto.MentorSetupRequest{
			College: dto.CreateCollegeRequest{Name: "Acme"},
			Cohort:  dto.CreateCohortRequest{Name: "Fall", Capacity: &badCapacity},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userID := f.createUser(t, "user-"+tc.name)
			if _, err := f.service.SelectRole(ctx, userID, models.RoleMentor); err != nil {
				t.Fatalf("SelectRole: %v", err)
			}
			if _, _, err := f.service.SubmitMentorSetup(ctx, userID, tc.req); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestMentorSetupCompensatesOnCohortFailure(t *testing.T) {
	f := newOnboardingFixture(t)
	userID := f.createUser(t, "100")
	ctx := context.Background()

	if _, err := f.service.SelectRole(ctx, userID, models.RoleMentor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}

	cohortStore := f.repos.Cohorts.(*fixture.CohortStore)
	cohortStore.FailCreate = errors.New("cohort insert failed")

	_, _, err := f.service.SubmitMentorSetup(ctx, userID, dto.MentorSetupRequest{
		College: dto.CreateCollegeRequest{Name: "Acme Tech"},
		Cohort:  dto.CreateCohortRequest{Name: "Fall 2026"},
	})
	if err == nil {
		t.Fatal("expected setup to fail")
	}

	// The college created before the failure must be gone again
	colleges, err := f.repos.Colleges.ListByMentor(ctx, userID)
	if err != nil {
		t.Fatalf("ListByMentor: %v", err)
	}
	if len(colleges) != 0 {
		t.Errorf("got %d colleges after failed setup, want 0", len(colleges))
	}

	user, _ := f.repos.Users.GetByID(ctx, userID)
	if user.Role != nil {
		t.Errorf("role = %v, want nil after failed setup", *user.Role)
	}
	if user.OnboardingDone {
		t.Error("onboarding must stay open after failed setup")
	}

	// The branch is still active; a retry can succeed
	if _, _, err := f.service.SubmitMentorSetup(ctx, userID, dto.MentorSetupRequest{
		College: dto.CreateCollegeRequest{Name: "Acme Tech"},
		Cohort:  dto.CreateCohortRequest{Name: "Fall 2026"},
	}); err != nil {
		t.Errorf("retry after compensation: %v", err)
	}
}

func TestInternSetupCreatesPendingRequestWithoutRole(t *testing.T) {
	f := newOnboardingFixture(t)
	_, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID := f.createUser(t, "intern-1")
	ctx := context.Background()

	if _, err := f.service.SelectRole(ctx, internID, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}

	request, err := f.service.SubmitInternSetup(ctx, internID, dto.InternSetupRequest{
		CollegeID: collegeID,
		CohortID:  cohortID,
		Message:   "please",
	})
	if err != nil {
		t.Fatalf("SubmitInternSetup: %v", err)
	}
	if request.Status != models.JoinRequestPending {
		t.Errorf("status = %s, want PENDING", request.Status)
	}

	user, _ := f.repos.Users.GetByID(ctx, internID)
	if user.Role != nil {
		t.Errorf("role = %v, want nil until approval", *user.Role)
	}
	if !user.OnboardingDone {
		t.Error("onboarding should be complete")
	}

	// Occupancy is untouched by the application itself
	cohort, _ := f.repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 0 {
		t.Errorf("occupancy = %d, want 0", cohort.Occupancy)
	}

	state, _ := f.service.GetState(ctx, internID)
	if state.State != string(models.StateComplete) {
		t.Errorf("state = %s, want %s", state.State, models.StateComplete)
	}
	if state.Role != "" {
		t.Errorf("state role = %q, want empty for unapproved intern", state.Role)
	}
}

func TestInternSetupRejectsMismatchedCohort(t *testing.T) {
	f := newOnboardingFixture(t)
	mentorID, collegeID, _ := f.createMentorWithCohort(t, 5)
	ctx := context.Background()

	otherCollegeID, err := f.repos.Colleges.Create(ctx, &models.College{Name: "Other", MentorID: mentorID})
	if err != nil {
		t.Fatalf("create college: %v", err)
	}
	otherCohortID, err := f.repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: otherCollegeID, Name: "Spring", Capacity: 5})
	if err != nil {
		t.Fatalf("create cohort: %v", err)
	}

	internID := f.createUser(t, "intern-1")
	if _, err := f.service.SelectRole(ctx, internID, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}

	_, err = f.service.SubmitInternSetup(ctx, internID, dto.InternSetupRequest{
		CollegeID: collegeID,
		CohortID:  otherCohortID,
	})
	if !errors.Is(err, apperrors.ErrCohortMismatch) {
		t.Errorf("error = %v, want ErrCohortMismatch", err)
	}
}

func TestInternSetupRequiresInternBranch(t *testing.T) {
	f := newOnboardingFixture(t)
	_, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID := f.createUser(t, "intern-1")

	_, err := f.service.SubmitInternSetup(context.Background(), internID, dto.InternSetupRequest{
		CollegeID: collegeID,
		CohortID:  cohortID,
	})
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
}

func TestInternSetupSoftFullCheck(t *testing.T) {
	f := newOnboardingFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 1)
	ctx := context.Background()

	// Fill the only seat through an approved request
	first := f.createUser(t, "intern-1")
	if _, err := f.service.SelectRole(ctx, first, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	request, err := f.service.SubmitInternSetup(ctx, first, dto.InternSetupRequest{CollegeID: collegeID, CohortID: cohortID})
	if err != nil {
		t.Fatalf("SubmitInternSetup: %v", err)
	}
	if err := f.repos.JoinRequests.Approve(ctx, request.ID, mentorID, "welcome"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	second := f.createUser(t, "intern-2")
	if _, err := f.service.SelectRole(ctx, second, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if _, err := f.service.SubmitInternSetup(ctx, second, dto.InternSetupRequest{CollegeID: collegeID, CohortID: cohortID}); !errors.Is(err, apperrors.ErrCohortFull) {
		t.Errorf("error = %v, want ErrCohortFull", err)
	}
}

func TestCompletedOnboardingReleasesIdentityBookkeeping(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	mentor := f.createUser(t, "mentor-release")
	if _, err := f.service.SelectRole(ctx, mentor, models.RoleMentor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if _, _, err := f.service.SubmitMentorSetup(ctx, mentor, dto.MentorSetupRequest{
		College: dto.CreateCollegeRequest{Name: "Acme Tech"},
		Cohort:  dto.CreateCohortRequest{Name: "Fall 2026"},
	}); err != nil {
		t.Fatalf("SubmitMentorSetup: %v", err)
	}

	_, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	intern := f.createUser(t, "intern-release")
	if _, err := f.service.SelectRole(ctx, intern, models.RoleIntern); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if _, err := f.service.SubmitInternSetup(ctx, intern, dto.InternSetupRequest{CollegeID: collegeID, CohortID: cohortID}); err != nil {
		t.Fatalf("SubmitInternSetup: %v", err)
	}

	f.service.mu.Lock()
	defer f.service.mu.Unlock()
	if n := len(f.service.pending); n != 0 {
		t.Errorf("pending entries after completion = %d, want 0", n)
	}
	if n := len(f.service.locks); n != 0 {
		t.Errorf("lock entries after completion = %d, want 0", n)
	}
}
