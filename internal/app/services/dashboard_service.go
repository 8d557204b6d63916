package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

// DashboardService builds the role-specific dashboard read models. It only
// reads; every mutation goes through the onboarding or approval services.
type DashboardService struct {
	users        repositories.UserStore
	colleges     repositories.CollegeStore
	cohorts      repositories.CohortStore
	joinRequests repositories.JoinRequestStore
	logger       zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	users repositories.UserStore,
	colleges repositories.CollegeStore,
	cohorts repositories.CohortStore,
	joinRequests repositories.JoinRequestStore,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		users:        users,
		colleges:     colleges,
		cohorts:      cohorts,
		joinRequests: joinRequests,
		logger:       logger,
	}
}

// BuildDashboard assembles the dashboard for the caller's role. Identities
// without a role (unapproved interns included) get an intern view of their
// own requests.
func (s *DashboardService) BuildDashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role := models.RoleIntern
	if user.Role != nil {
		role = *user.Role
	}

	resp := &dto.DashboardResponse{Role: string(role)}
	switch role {
	case models.RoleMentor:
		mentor, err := s.buildMentorDashboard(ctx, userID)
		if err != nil {
			return nil, err
		}
		resp.Mentor = mentor
	case models.RoleAdmin:
		stats, err := s.BuildStats(ctx)
		if err != nil {
			return nil, err
		}
		resp.Admin = stats
	default:
		intern, err := s.buildInternDashboard(ctx, user)
		if err != nil {
			return nil, err
		}
		resp.Intern = intern
	}
	return resp, nil
}

func (s *DashboardService) buildMentorDashboard(ctx context.Context, mentorID int64) (*dto.MentorDashboard, error) {
	colleges, err := s.colleges.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor colleges: %w", err)
	}
	for _, college := range colleges {
		cohorts, err := s.cohorts.ListByCollege(ctx, college.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cohorts: %w", err)
		}
		college.Cohorts = cohorts
	}

	pending := models.JoinRequestPending
	requests, err := s.joinRequests.ListByMentor(ctx, mentorID, &pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	dashboard := &dto.MentorDashboard{
		Colleges:            dto.NewCollegeListResponse(colleges).Colleges,
		PendingRequestCount: int64(len(requests)),
	}
	return dashboard, nil
}

func (s *DashboardService) buildInternDashboard(ctx context.Context, user *models.User) (*dto.InternDashboard, error) {
	requests, err := s.joinRequests.ListByIntern(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intern requests: %w", err)
	}

	dashboard := &dto.InternDashboard{
		Requests: dto.NewJoinRequestListResponse(requests).JoinRequests,
	}

	if user.Role != nil && *user.Role == models.RoleIntern && user.CollegeID != nil {
		college, err := s.colleges.GetByID(ctx, *user.CollegeID)
		if err != nil && !apperrors.Is(err, apperrors.ErrCollegeNotFound) {
			return nil, fmt.Errorf("failed to load assigned college: %w", err)
		}
		if college != nil {
			assigned := dto.NewCollegeResponse(college)
			dashboard.AssignedCollege = &assigned
		}
	}
	return dashboard, nil
}

// BuildStats aggregates the platform counters for the admin view
func (s *DashboardService) BuildStats(ctx context.Context) (*dto.AdminStats, error) {
	stats := &dto.AdminStats{}

	var err error
	if stats.TotalMentors, err = s.users.CountByRole(ctx, models.RoleMentor); err != nil {
		return nil, fmt.Errorf("failed to count mentors: %w", err)
	}
	if stats.TotalInterns, err = s.users.CountByRole(ctx, models.RoleIntern); err != nil {
		return nil, fmt.Errorf("failed to count interns: %w", err)
	}
	if stats.TotalColleges, err = s.colleges.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count colleges: %w", err)
	}
	if stats.PendingRequests, err = s.joinRequests.CountByStatus(ctx, models.JoinRequestPending); err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	if stats.ApprovedRequests, err = s.joinRequests.CountByStatus(ctx, models.JoinRequestApproved); err != nil {
		return nil, fmt.Errorf("failed to count approved requests: %w", err)
	}
	if stats.RejectedRequests, err = s.joinRequests.CountByStatus(ctx, models.JoinRequestRejected); err != nil {
		return nil, fmt.Errorf("failed to count rejected requests: %w", err)
	}
	return stats, nil
}
