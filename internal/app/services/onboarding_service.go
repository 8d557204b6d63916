package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

// OnboardingService drives the onboarding state machine. The committed role
// assignment is the durable source of truth; the in-flight sub-state between
// role selection and setup submission lives in memory only and falls back to
// role selection after a restart, which is harmless because no input has
// been persisted yet.
//
// All transitions for one identity are serialized through a per-identity
// mutex, so interleaved submissions cannot race each other.
type OnboardingService struct {
	users        repositories.UserStore
	colleges     repositories.CollegeStore
	cohorts      repositories.CohortStore
	joinRequests repositories.JoinRequestStore
	logger       zerolog.Logger

	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	pending map[int64]models.OnboardingState
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(
	users repositories.UserStore,
	colleges repositories.CollegeStore,
	cohorts repositories.CohortStore,
	joinRequests repositories.JoinRequestStore,
	logger zerolog.Logger,
) *OnboardingService {
	return &OnboardingService{
		users:        users,
		colleges:     colleges,
		cohorts:      cohorts,
		joinRequests: joinRequests,
		logger:       logger,
		locks:        map[int64]*sync.Mutex{},
		pending:      map[int64]models.OnboardingState{},
	}
}

func (s *OnboardingService) identityLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *OnboardingService) pendingState(userID int64) (models.OnboardingState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.pending[userID]
	return state, ok
}

func (s *OnboardingService) setPending(userID int64, state models.OnboardingState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = state
}

func (s *OnboardingService) clearPending(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

// releaseIdentity drops the per-identity bookkeeping once onboarding has
// committed. The lock entry is safe to remove because any later caller sees
// StateComplete from the durable record.
func (s *OnboardingService) releaseIdentity(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
	delete(s.locks, userID)
}

// stateOf derives the current onboarding state for a user. A committed role
// or a finished intern submission short-circuits to complete regardless of
// any in-memory sub-state.
func (s *OnboardingService) stateOf(user *models.User) models.OnboardingState {
	if user.Role != nil || user.OnboardingDone {
		return models.StateComplete
	}
	if state, ok := s.pendingState(user.ID); ok {
		return state
	}
	return models.StateRoleSelection
}

// GetState reports where the identity is in the onboarding sequence
func (s *OnboardingService) GetState(ctx context.Context, userID int64) (*dto.OnboardingStateResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.OnboardingStateResponse{State: string(s.stateOf(user))}
	if user.Role != nil {
		resp.Role = string(*user.Role)
		resp.CollegeID = user.CollegeID
	}
	return resp, nil
}

// SelectRole moves the identity from role selection into the chosen setup
// branch. Only mentor and intern are selectable; admin is assigned, never
// chosen.
func (s *OnboardingService) SelectRole(ctx context.Context, userID int64, role models.RoleType) (*dto.OnboardingStateResponse, error) {
	lock := s.identityLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch s.stateOf(user) {
	case models.StateComplete:
		return nil, apperrors.ErrOnboardingComplete
	case models.StateRoleSelection:
	default:
		return nil, fmt.Errorf("%w: role already selected", apperrors.ErrInvalidTransition)
	}

	var next models.OnboardingState
	switch role {
	case models.RoleMentor:
		next = models.StateMentorOnboarding
	case models.RoleIntern:
		next = models.StateInternOnboarding
	default:
		return nil, apperrors.ErrRoleNotSelectable
	}

	s.setPending(userID, next)
	s.logger.Debug().Int64("userId", userID).Str("role", string(role)).Msg("Onboarding role selected")
	return &dto.OnboardingStateResponse{State: string(next)}, nil
}

// GoBack returns the identity to role selection, discarding any chosen
// branch. It is the only re-negotiation gate: once a role is committed the
// sequence cannot be re-entered.
func (s *OnboardingService) GoBack(ctx context.Context, userID int64) (*dto.OnboardingStateResponse, error) {
	lock := s.identityLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.stateOf(user) == models.StateComplete {
		return nil, apperrors.ErrOnboardingComplete
	}

	s.clearPending(userID)
	return &dto.OnboardingStateResponse{State: string(models.StateRoleSelection)}, nil
}

// SubmitMentorSetup creates the mentor's college and first cohort, then
// commits the mentor role. College and cohort creation are not one
// transaction; if the cohort cannot be created the college is deleted again
// so a failed submission leaves nothing behind.
func (s *OnboardingService) SubmitMentorSetup(ctx context.Context, userID int64, req dto.MentorSetupRequest) (*models.College, *models.Cohort, error) {
	lock := s.identityLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	switch s.stateOf(user) {
	case models.StateComplete:
		return nil, nil, apperrors.ErrOnboardingComplete
	case models.StateMentorOnboarding:
	default:
		return nil, nil, fmt.Errorf("%w: mentor setup requires the mentor branch", apperrors.ErrInvalidTransition)
	}

	if err := validateCollegeInput(req.College); err != nil {
		return nil, nil, err
	}
	cohort, err := buildCohort(0, req.Cohort)
	if err != nil {
		return nil, nil, err
	}

	college := &models.College{
		Name:        strings.TrimSpace(req.College.Name),
		Description: req.College.Description,
		Location:    req.College.Location,
		Website:     req.College.Website,
		MentorID:    userID,
	}
	collegeID, err := s.colleges.Create(ctx, college)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create college: %w", err)
	}
	college.ID = collegeID

	cohort.CollegeID = collegeID
	cohortID, err := s.cohorts.Create(ctx, cohort)
	if err != nil {
		// Compensate so the half-finished setup is not observable.
		if delErr := s.colleges.Delete(ctx, collegeID); delErr != nil {
			s.logger.Error().Err(delErr).Int64("collegeId", collegeID).
				Msg("Failed to roll back college after cohort creation failure")
		}
		return nil, nil, fmt.Errorf("failed to create cohort: %w", err)
	}
	cohort.ID = cohortID

	assignment := models.RoleAssignment{
		Role:       models.RoleMentor,
		CollegeID:  &collegeID,
		AssignedBy: strconv.FormatInt(userID, 10),
	}
	if err := s.users.AssignRole(ctx, userID, assignment); err != nil {
		return nil, nil, fmt.Errorf("failed to assign mentor role: %w", err)
	}
	if err := s.users.SetOnboardingComplete(ctx, userID); err != nil {
		return nil, nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	s.releaseIdentity(userID)
	s.logger.Info().Int64("userId", userID).Int64("collegeId", collegeID).Msg("Mentor onboarding completed")
	return college, cohort, nil
}

// SubmitInternSetup records the intern's application as a pending join
// request. The intern gets no role here; the role is assigned when a mentor
// approves the request.
func (s *OnboardingService) SubmitInternSetup(ctx context.Context, userID int64, req dto.InternSetupRequest) (*models.JoinRequest, error) {
	lock := s.identityLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch s.stateOf(user) {
	case models.StateComplete:
		return nil, apperrors.ErrOnboardingComplete
	case models.StateInternOnboarding:
	default:
		return nil, fmt.Errorf("%w: intern setup requires the intern branch", apperrors.ErrInvalidTransition)
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
		InternID:  userID,
		CollegeID: college.ID,
		CohortID:  cohort.ID,
		MentorID:  college.MentorID,
		Message:   strings.TrimSpace(req.Message),
	}
	requestID, err := s.joinRequests.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	if err := s.users.SetOnboardingComplete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	s.releaseIdentity(userID)
	s.logger.Info().Int64("userId", userID).Int64("requestId", requestID).Msg("Intern onboarding completed, request pending")
	return s.joinRequests.GetByID(ctx, requestID)
}
