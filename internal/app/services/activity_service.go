package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/gitlab"
)

const (
	// initialSyncWindow bounds the first sync of a fresh connection
	initialSyncWindow = 30 * 24 * time.Hour

	activityListDefaultLimit = 20
	activityListMaxLimit     = 100
)

// ActivityService links identities to GitLab personal access tokens and
// maintains the synced activity read model. Syncing is pull-based: each run
// fetches the event feed since the last cursor and records what is new;
// replaying an overlapping window is harmless because the store
// deduplicates on the event id.
type ActivityService struct {
	users      repositories.UserStore
	colleges   repositories.CollegeStore
	activities repositories.ActivityStore
	fetcher    gitlab.ActivityFetcher
	logger     zerolog.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	users repositories.UserStore,
	colleges repositories.CollegeStore,
	activities repositories.ActivityStore,
	fetcher gitlab.ActivityFetcher,
	logger zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		users:      users,
		colleges:   colleges,
		activities: activities,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// Connect validates the token against the event feed and stores the link.
// Reconnecting replaces the token and resets the sync cursor.
func (s *ActivityService) Connect(ctx context.Context, userID int64, token string) (*models.GitLabConnection, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewValidationError("token is required", map[string]interface{}{
			"token": "must not be blank",
		})
	}

	// A read of the event feed doubles as token validation
	if _, err := s.fetcher.FetchEvents(ctx, token, time.Now().Add(-24*time.Hour)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGitLabTokenRejected, err)
	}

	conn := &models.GitLabConnection{
		UserID:      userID,
		AccessToken: token,
		ConnectedAt: time.Now(),
	}
	if err := s.activities.SaveConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to save gitlab connection: %w", err)
	}

	s.logger.Info().Int64("userId", userID).Msg("GitLab account connected")
	return conn, nil
}

// GetConnection retrieves the caller's token link
func (s *ActivityService) GetConnection(ctx context.Context, userID int64) (*models.GitLabConnection, error) {
	return s.activities.GetConnection(ctx, userID)
}

// Sync pulls the event feed since the last cursor and records new
// activities. Events the classifier does not recognize are skipped, not
// failed.
func (s *ActivityService) Sync(ctx context.Context, userID int64) (*dto.SyncActivitiesResponse, error) {
	conn, err := s.activities.GetConnection(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := now.Add(-initialSyncWindow)
	if conn.LastSyncedAt != nil {
		since = *conn.LastSyncedAt
	}

	events, err := s.fetcher.FetchEvents(ctx, conn.AccessToken, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGitLabTokenRejected, err)
	}

	activities := make([]*models.Activity, 0, len(events))
	for _, event := range events {
		activityType, title, ok := classifyEvent(event)
		if !ok {
			continue
		}
		activities = append(activities, &models.Activity{
			UserID:        userID,
			Type:          activityType,
			GitLabEventID: event.ID,
			ProjectID:     event.ProjectID,
			Title:         title,
			OccurredAt:    event.CreatedAt,
		})
	}

	recorded, err := s.activities.RecordActivities(ctx, activities)
	if err != nil {
		return nil, fmt.Errorf("failed to record activities: %w", err)
	}
	if err := s.activities.MarkSynced(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to advance sync cursor: %w", err)
	}

	s.logger.Info().Int64("userId", userID).Int("fetched", len(events)).
		Int64("recorded", recorded).Msg("Activity sync completed")
	return &dto.SyncActivitiesResponse{
		Fetched:  len(events),
		Recorded: recorded,
		SyncedAt: now,
	}, nil
}

// ListActivities retrieves the caller's most recent synced activities
func (s *ActivityService) ListActivities(ctx context.Context, userID int64, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = activityListDefaultLimit
	}
	if limit > activityListMaxLimit {
		limit = activityListMaxLimit
	}
	return s.activities.ListByUser(ctx, userID, limit)
}

// TeamActivity aggregates activity counts for the interns placed in the
// mentor's colleges inside the reporting window.
func (s *ActivityService) TeamActivity(ctx context.Context, mentorID int64, period string) (*dto.TeamActivityResponse, error) {
	window, normalized, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	since := time.Now().Add(-window)

	colleges, err := s.colleges.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor colleges: %w", err)
	}

	resp := &dto.TeamActivityResponse{
		Period:  normalized,
		Since:   since,
		Members: []dto.TeamMemberActivity{},
	}
	for _, college := range colleges {
		interns, err := s.users.ListInternsByCollege(ctx, college.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load interns: %w", err)
		}
		for _, intern := range interns {
			count, err := s.activities.CountByUserSince(ctx, intern.ID, since)
			if err != nil {
				return nil, fmt.Errorf("failed to count activities: %w", err)
			}

			member := dto.TeamMemberActivity{
				UserID:         intern.ID,
				Name:           intern.Name,
				GitLabUsername: intern.GitLabUsername,
				CollegeID:      college.ID,
				ActivityCount:  count,
			}
			if recent, err := s.activities.ListByUser(ctx, intern.ID, 1); err != nil {
				return nil, fmt.Errorf("failed to load recent activity: %w", err)
			} else if len(recent) > 0 {
				member.LastActivityAt = &recent[0].OccurredAt
			}
			resp.Members = append(resp.Members, member)
		}
	}
	return resp, nil
}

// parsePeriod maps the reporting window parameter to a duration. An empty
// period defaults to 30 days.
func parsePeriod(period string) (time.Duration, string, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "", "30d":
		return 30 * 24 * time.Hour, "30d", nil
	case "7d":
		return 7 * 24 * time.Hour, "7d", nil
	case "90d":
		return 90 * 24 * time.Hour, "90d", nil
	case "1y":
		return 365 * 24 * time.Hour, "1y", nil
	default:
		return 0, "", apperrors.NewValidationError("invalid period", map[string]interface{}{
			"period": "must be one of 7d, 30d, 90d, 1y",
		})
	}
}

// classifyEvent maps a raw feed event to an activity type and display
// title. Events outside the tracked categories are dropped.
func classifyEvent(event gitlab.Event) (models.ActivityType, string, bool) {
	action := strings.ToLower(event.Action)

	switch {
	case strings.HasPrefix(action, "pushed"):
		title := event.CommitTitle
		if event.CommitCount == 1 {
			return models.ActivityCommit, title, true
		}
		if title == "" {
			title = fmt.Sprintf("Pushed %d commits", event.CommitCount)
		}
		return models.ActivityPush, title, true
	case strings.HasPrefix(action, "commented"):
		return models.ActivityComment, event.TargetTitle, true
	case action == "approved":
		return models.ActivityReview, event.TargetTitle, true
	}

	switch event.TargetType {
	case "MergeRequest":
		return models.ActivityMergeRequest, event.TargetTitle, true
	case "Issue":
		return models.ActivityIssue, event.TargetTitle, true
	}
	return "", "", false
}
