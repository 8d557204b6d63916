package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/fixture"
)

func newAdminFixture(t *testing.T) (*repositories.Repositories, *AdminService) {
	t.Helper()
	repos := fixture.NewRepositories(fixture.NewStore())
	return repos, NewAdminService(repos.Users, repos.Colleges, repos.Cohorts, zerolog.Nop())
}

func createActiveUser(t *testing.T, repos *repositories.Repositories, gitlabID string) int64 {
	t.Helper()
	id, err := repos.Users.Create(context.Background(), &models.User{
		GitLabID: gitlabID,
		Name:     "User " + gitlabID,
		Email:    gitlabID + "@example.com",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestAdminAssignRoleReplacesWholeTuple(t *testing.T) {
	repos, svc := newAdminFixture(t)
	adminID := createActiveUser(t, repos, "admin")
	targetID := createActiveUser(t, repos, "target")
	ctx := context.Background()

	collegeID, err := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: adminID})
	if err != nil {
		t.Fatalf("create college: %v", err)
	}

	user, err := svc.AssignRole(ctx, adminID, targetID, models.RoleIntern, &collegeID)
	if err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	if user.Role == nil || *user.Role != models.RoleIntern {
		t.Errorf("role = %v, want INTERN", user.Role)
	}
	if user.CollegeID == nil || *user.CollegeID != collegeID {
		t.Errorf("collegeID = %v, want %d", user.CollegeID, collegeID)
	}
	if !user.OnboardingDone {
		t.Error("admin assignment must close onboarding")
	}

	// Promoting to mentor replaces the tuple; the old college scope does not
	// survive unless restated
	user, err = svc.AssignRole(ctx, adminID, targetID, models.RoleMentor, nil)
	if err != nil {
		t.Fatalf("second AssignRole: %v", err)
	}
	if user.Role == nil || *user.Role != models.RoleMentor {
		t.Errorf("role = %v, want MENTOR", user.Role)
	}
	if user.CollegeID != nil {
		t.Errorf("collegeID = %v, want nil after replacement", *user.CollegeID)
	}
}

func TestAdminAssignInternRoleRequiresCollege(t *testing.T) {
	repos, svc := newAdminFixture(t)
	adminID := createActiveUser(t, repos, "admin")
	targetID := createActiveUser(t, repos, "target")
	ctx := context.Background()

	if _, err := svc.AssignRole(ctx, adminID, targetID, models.RoleIntern, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("missing college error = %v, want ErrValidationFailed", err)
	}

	ghost := int64(404)
	if _, err := svc.AssignRole(ctx, adminID, targetID, models.RoleIntern, &ghost); !errors.Is(err, apperrors.ErrCollegeNotFound) {
		t.Errorf("unknown college error = %v, want ErrCollegeNotFound", err)
	}

	if _, err := svc.AssignRole(ctx, adminID, targetID, models.RoleType("WIZARD"), nil); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("unknown role error = %v, want ErrBadRequest", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	repos, svc := newAdminFixture(t)
	adminID := createActiveUser(t, repos, "admin")
	targetID := createActiveUser(t, repos, "target")
	ctx := context.Background()

	if err := svc.DeactivateUser(ctx, adminID, adminID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("self-deactivate error = %v, want ErrPermissionDenied", err)
	}

	if err := svc.DeactivateUser(ctx, adminID, targetID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	user, err := repos.Users.GetByID(ctx, targetID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.IsActive {
		t.Error("user still active after deactivation")
	}

	// Deactivated users drop out of the listing
	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	for _, u := range users {
		if u.ID == targetID {
			t.Error("deactivated user still listed")
		}
	}
}
