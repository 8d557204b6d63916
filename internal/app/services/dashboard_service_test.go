package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/fixture"
)

func newDashboardFixture(t *testing.T) (*repositories.Repositories, *DashboardService) {
	t.Helper()
	repos := fixture.NewRepositories(fixture.NewStore())
	return repos, NewDashboardService(repos.Users, repos.Colleges, repos.Cohorts, repos.JoinRequests, zerolog.Nop())
}

func TestMentorDashboardCountsPendingRequests(t *testing.T) {
	repos, svc := newDashboardFixture(t)
	ctx := context.Background()

	mentorID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "m", Email: "m@example.com", IsActive: true})
	collegeID, _ := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: mentorID})
	role := models.RoleMentor
	if err := repos.Users.AssignRole(ctx, mentorID, models.RoleAssignment{Role: role, CollegeID: &collegeID, AssignedBy: models.SystemAssigner}); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	cohortID, _ := repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall", Capacity: 5})

	for i := 0; i < 3; i++ {
		internID, _ := repos.Users.Create(ctx, &models.User{GitLabID: string(rune('a' + i)), Email: string(rune('a'+i)) + "@example.com", IsActive: true})
		requestID, _ := repos.JoinRequests.Create(ctx, &models.JoinRequest{
			InternID: internID, CollegeID: collegeID, CohortID: cohortID, MentorID: mentorID,
		})
		if i == 0 {
			if err := repos.JoinRequests.Reject(ctx, requestID, mentorID, "no"); err != nil {
				t.Fatalf("Reject: %v", err)
			}
		}
	}

	dashboard, err := svc.BuildDashboard(ctx, mentorID)
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}
	if dashboard.Role != string(models.RoleMentor) {
		t.Errorf("role = %s, want MENTOR", dashboard.Role)
	}
	if dashboard.Mentor == nil {
		t.Fatal("mentor view missing")
	}
	if dashboard.Mentor.PendingRequestCount != 2 {
		t.Errorf("pending = %d, want 2", dashboard.Mentor.PendingRequestCount)
	}
	if len(dashboard.Mentor.Colleges) != 1 {
		t.Errorf("colleges = %d, want 1", len(dashboard.Mentor.Colleges))
	}
}

func TestRolelessIdentityGetsInternView(t *testing.T) {
	repos, svc := newDashboardFixture(t)
	ctx := context.Background()

	mentorID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "m", Email: "m@example.com", IsActive: true})
	collegeID, _ := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: mentorID})
	cohortID, _ := repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall", Capacity: 5})

	internID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "i", Email: "i@example.com", IsActive: true})
	if _, err := repos.JoinRequests.Create(ctx, &models.JoinRequest{
		InternID: internID, CollegeID: collegeID, CohortID: cohortID, MentorID: mentorID,
	}); err != nil {
		t.Fatalf("create request: %v", err)
	}

	dashboard, err := svc.BuildDashboard(ctx, internID)
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}
	if dashboard.Intern == nil {
		t.Fatal("intern view missing")
	}
	if len(dashboard.Intern.Requests) != 1 {
		t.Errorf("requests = %d, want 1", len(dashboard.Intern.Requests))
	}
	// No assigned college until approval
	if dashboard.Intern.AssignedCollege != nil {
		t.Errorf("college = %+v, want nil before approval", dashboard.Intern.AssignedCollege)
	}
}

func TestBuildStats(t *testing.T) {
	repos, svc := newDashboardFixture(t)
	ctx := context.Background()

	mentorRole := models.RoleMentor
	mentorID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "m", Email: "m@example.com", Role: &mentorRole, IsActive: true})
	collegeID, _ := repos.Colleges.Create(ctx, &models.College{Name: "Acme", MentorID: mentorID})
	cohortID, _ := repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall", Capacity: 5})

	internID, _ := repos.Users.Create(ctx, &models.User{GitLabID: "i", Email: "i@example.com", IsActive: true})
	requestID, _ := repos.JoinRequests.Create(ctx, &models.JoinRequest{
		InternID: internID, CollegeID: collegeID, CohortID: cohortID, MentorID: mentorID,
	})
	if err := repos.JoinRequests.Approve(ctx, requestID, mentorID, "ok"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	stats, err := svc.BuildStats(ctx)
	if err != nil {
		t.Fatalf("BuildStats: %v", err)
	}
	if stats.TotalMentors != 1 {
		t.Errorf("mentors = %d, want 1", stats.TotalMentors)
	}
	if stats.TotalInterns != 1 {
		t.Errorf("interns = %d, want 1", stats.TotalInterns)
	}
	if stats.TotalColleges != 1 {
		t.Errorf("colleges = %d, want 1", stats.TotalColleges)
	}
	if stats.PendingRequests != 0 {
		t.Errorf("pending = %d, want 0", stats.PendingRequests)
	}
	if stats.ApprovedRequests != 1 {
		t.Errorf("approved = %d, want 1", stats.ApprovedRequests)
	}
}
