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

// ApprovalService handles the join request lifecycle: intern applications
// and mentor decisions. Decisions are at most once per request: the store
// primitives only apply while the request is still pending, so of two
// concurrent deciders exactly one wins and the loser sees
// apperrors.ErrRequestAlreadyDecided.
type ApprovalService struct {
	users        repositories.UserStore
	joinRequests repositories.JoinRequestStore
	colleges     repositories.CollegeStore
	cohorts      repositories.CohortStore
	logger       zerolog.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	users repositories.UserStore,
	joinRequests repositories.JoinRequestStore,
	colleges repositories.CollegeStore,
	cohorts repositories.CohortStore,
	logger zerolog.Logger,
) *ApprovalService {
	return &ApprovalService{
		users:        users,
		joinRequests: joinRequests,
		colleges:     colleges,
		cohorts:      cohorts,
		logger:       logger,
	}
}

// Apply records a new application from an unplaced identity, outside the
// onboarding sequence (re-applying after a rejection, or applying to a
// second cohort). Identities with a committed role are already placed and
// cannot apply.
func (s *ApprovalService) Apply(ctx context.Context, internID int64, req dto.CreateJoinRequestRequest) (*models.JoinRequest, error) {
	user, err := s.users.GetByID(ctx, internID)
	if err != nil {
		return nil, err
	}
	if user.Role != nil {
		return nil, apperrors.NewConflictError("identity already holds a role")
	}

	college, err := s.colleges.GetByID(ctx, req.CollegeID)
	if err != nil {
		return nil, err
	}
	cohort, err := s.cohorts.GetByID(ctx, req.CohortID)
	if err != nil {
		return nil, err
	}
	if cohort.CollegeID != college.ID {
		return nil, apperrors.ErrCohortMismatch
	}
	// Soft check only; the authoritative capacity gate runs at approval time.
	if cohort.IsFull() {
		return nil, apperrors.ErrCohortFull
	}

	request := &models.JoinRequest{
		InternID:  internID,
		CollegeID: college.ID,
		CohortID:  cohort.ID,
		MentorID:  college.MentorID,
		Message:   strings.TrimSpace(req.Message),
	}
	requestID, err := s.joinRequests.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.logger.Info().Int64("userId", internID).Int64("requestId", requestID).Msg("Join request submitted")
	return s.joinRequests.GetByID(ctx, requestID)
}

// ListPendingRequests returns the pending requests against the mentor's
// colleges, oldest first
func (s *ApprovalService) ListPendingRequests(ctx context.Context, mentorID int64) ([]*models.JoinRequest, error) {
	pending := models.JoinRequestPending
	return s.joinRequests.ListByMentor(ctx, mentorID, &pending)
}

// ListRequestsForIntern returns the requests the intern submitted,
// newest first
func (s *ApprovalService) ListRequestsForIntern(ctx context.Context, internID int64) ([]*models.JoinRequest, error) {
	return s.joinRequests.ListByIntern(ctx, internID)
}

// GetRequest loads a single join request, restricted to its intern or the
// owning mentor
func (s *ApprovalService) GetRequest(ctx context.Context, requestID, callerID int64) (*models.JoinRequest, error) {
	request, err := s.joinRequests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.InternID != callerID && request.MentorID != callerID {
		return nil, apperrors.NewForbiddenError("request does not belong to the caller")
	}
	return request, nil
}

// Decide applies a mentor's verdict on a pending request. Authorization is
// by ownership of the referenced college, not by role alone. Approval does
// the capacity check-and-increment and the intern role assignment
// atomically; a full cohort leaves the request pending.
func (s *ApprovalService) Decide(ctx context.Context, requestID, mentorID int64, outcome models.DecisionOutcome, response string) (*models.JoinRequest, error) {
	request, err := s.joinRequests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	college, err := s.colleges.GetByID(ctx, request.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request college: %w", err)
	}
	if college.MentorID != mentorID {
		return nil, apperrors.NewForbiddenError("only the owning mentor can decide this request")
	}

	switch outcome {
	case models.OutcomeApproved:
		err = s.joinRequests.Approve(ctx, requestID, mentorID, response)
	case models.OutcomeRejected:
		err = s.joinRequests.Reject(ctx, requestID, mentorID, response)
	default:
		return nil, fmt.Errorf("%w: unknown decision outcome %q", apperrors.ErrBadRequest, outcome)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestId", requestID).
		Int64("mentorId", mentorID).
		Str("outcome", string(outcome)).
		Msg("Join request decided")
	return s.joinRequests.GetByID(ctx, requestID)
}
