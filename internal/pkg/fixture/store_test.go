package fixture

import (
	"context"
	"errors"
	"testing"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

func TestUserStoreRejectsDuplicateGitLabID(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	if _, err := repos.Users.Create(ctx, &models.User{GitLabID: "1", Email: "a@example.com", IsActive: true}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repos.Users.Create(ctx, &models.User{GitLabID: "1", Email: "b@example.com", IsActive: true}); !errors.Is(err, apperrors.ErrIdentityExists) {
		t.Errorf("duplicate create error = %v, want ErrIdentityExists", err)
	}

	// Passwordless admin accounts have no external id; several may coexist
	if _, err := repos.Users.Create(ctx, &models.User{Email: "admin1@example.com", IsActive: true}); err != nil {
		t.Errorf("first empty-id create: %v", err)
	}
	if _, err := repos.Users.Create(ctx, &models.User{Email: "admin2@example.com", IsActive: true}); err != nil {
		t.Errorf("second empty-id create: %v", err)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	id, err := repos.Users.Create(ctx, &models.User{GitLabID: "1", Name: "Original", Email: "a@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, _ := repos.Users.GetByID(ctx, id)
	loaded.Name = "Mutated"

	reloaded, _ := repos.Users.GetByID(ctx, id)
	if reloaded.Name != "Original" {
		t.Errorf("name = %q, caller mutation leaked into the store", reloaded.Name)
	}
}

func TestApproveIncrementsOccupancyOnce(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	mentorID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "m", Email: "m@example.com", IsActive: true})
	internID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "i", Email: "i@example.com", IsActive: true})
	collegeID, _ := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: mentorID})
	cohortID, _ := repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall", Capacity: 1})
	requestID, _ := repos.JoinRequests.Create(ctx, &models.JoinRequest{
		InternID: internID, CollegeID: collegeID, CohortID: cohortID, MentorID: mentorID,
	})

	if err := repos.JoinRequests.Approve(ctx, requestID, mentorID, "ok"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := repos.JoinRequests.Approve(ctx, requestID, mentorID, "ok"); !errors.Is(err, apperrors.ErrRequestAlreadyDecided) {
		t.Errorf("second Approve error = %v, want ErrRequestAlreadyDecided", err)
	}

	cohort, _ := repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 1 {
		t.Errorf("occupancy = %d, want 1", cohort.Occupancy)
	}

	intern, _ := repos.Users.GetByID(ctx, internID)
	if intern.Role == nil || *intern.Role != models.RoleIntern {
		t.Errorf("intern role = %v, want INTERN", intern.Role)
	}
}

func TestRejectHasNoSideEffects(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	mentorID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "m", Email: "m@example.com", IsActive: true})
	internID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "i", Email: "i@example.com", IsActive: true})
	collegeID, _ := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: mentorID})
	cohortID, _ := repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall", Capacity: 1})
	requestID, _ := repos.JoinRequests.Create(ctx, &models.JoinRequest{
		InternID: internID, CollegeID: collegeID, CohortID: cohortID, MentorID: mentorID,
	})

	if err := repos.JoinRequests.Reject(ctx, requestID, mentorID, "no"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	cohort, _ := repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 0 {
		t.Errorf("occupancy = %d, want 0", cohort.Occupancy)
	}
	intern, _ := repos.Users.GetByID(ctx, internID)
	if intern.Role != nil {
		t.Errorf("intern role = %v, want nil", *intern.Role)
	}
}

func TestSeedDemoData(t *testing.T) {
	repos := NewRepositories(NewStore())
	resolver := NewResolver("http://localhost:8080")
	ctx := context.Background()

	if err := SeedDemoData(ctx, repos, resolver); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	// Each persona resolves with its fixed code
	for _, code := range []string{"demo-mentor", "demo-intern", "demo-new"} {
		profile, err := resolver.ResolveIdentity(ctx, code)
		if err != nil {
			t.Errorf("resolve %s: %v", code, err)
			continue
		}
		if _, err := repos.Users.GetByGitLabID(ctx, profile.GitLabID); err != nil {
			t.Errorf("no seeded user for %s: %v", code, err)
		}
	}

	mentor, err := repos.Users.GetByGitLabID(ctx, "900001")
	if err != nil {
		t.Fatalf("load mentor: %v", err)
	}
	if mentor.Role == nil || *mentor.Role != models.RoleMentor {
		t.Errorf("mentor role = %v, want MENTOR", mentor.Role)
	}

	colleges, err := repos.Colleges.ListByMentor(ctx, mentor.ID)
	if err != nil || len(colleges) != 1 {
		t.Fatalf("mentor colleges = %v, %v", colleges, err)
	}
	cohorts, err := repos.Cohorts.ListByCollege(ctx, colleges[0].ID)
	if err != nil || len(cohorts) != 2 {
		t.Fatalf("cohorts = %d, want 2 (%v)", len(cohorts), err)
	}

	pending := models.JoinRequestPending
	requests, err := repos.JoinRequests.ListByMentor(ctx, mentor.ID, &pending)
	if err != nil || len(requests) != 1 {
		t.Fatalf("pending requests = %d, want 1 (%v)", len(requests), err)
	}
}
