package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/fixture"
)

type approvalFixture struct {
	repos   *repositories.Repositories
	service *ApprovalService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	repos := fixture.NewRepositories(fixture.NewStore())
	return &approvalFixture{
		repos:   repos,
		service: NewApprovalService(repos.Users, repos.JoinRequests, repos.Colleges, repos.Cohorts, zerolog.Nop()),
	}
}

func (f *approvalFixture) createMentorWithCohort(t *testing.T, capacity int) (mentorID, collegeID, cohortID int64) {
	t.Helper()
	ctx := context.Background()

	mentorID, err := f.repos.Users.Create(ctx, &models.User{
		GitLabID: "mentor-" + t.Name(),
		Name:     "Mentor",
		Email:    "mentor-" + t.Name() + "@example.com",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create mentor: %v", err)
	}
	collegeID, err = f.repos.Colleges.Create(ctx, &models.College{Name: "Acme Tech", MentorID: mentorID})
	if err != nil {
		t.Fatalf("create college: %v", err)
	}
	cohortID, err = f.repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: collegeID, Name: "Fall 2026", Capacity: capacity})
	if err != nil {
		t.Fatalf("create cohort: %v", err)
	}
	return mentorID, collegeID, cohortID
}

func (f *approvalFixture) createPendingRequest(t *testing.T, gitlabID string, mentorID, collegeID, cohortID int64) (internID, requestID int64) {
	t.Helper()
	ctx := context.Background()

	internID, err := f.repos.Users.Create(ctx, &models.User{
		GitLabID: gitlabID,
		Name:     "Intern",
		Email:    gitlabID + "@example.com",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create intern: %v", err)
	}
	requestID, err = f.repos.JoinRequests.Create(ctx, &models.JoinRequest{
		InternID:  internID,
		CollegeID: collegeID,
		CohortID:  cohortID,
		MentorID:  mentorID,
		Message:   "hi",
	})
	if err != nil {
		t.Fatalf("create join request: %v", err)
	}
	return internID, requestID
}

func TestDecideApproveAssignsRoleAndSeat(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	request, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeApproved, "welcome aboard")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if request.Status != models.JoinRequestApproved {
		t.Errorf("status = %s, want APPROVED", request.Status)
	}
	if request.MentorResponse != "welcome aboard" {
		t.Errorf("mentorResponse = %q", request.MentorResponse)
	}
	if request.ReviewedBy == nil || *request.ReviewedBy != mentorID {
		t.Errorf("reviewedBy = %v, want %d", request.ReviewedBy, mentorID)
	}

	cohort, _ := f.repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 1 {
		t.Errorf("occupancy = %d, want 1", cohort.Occupancy)
	}

	intern, _ := f.repos.Users.GetByID(ctx, internID)
	if intern.Role == nil || *intern.Role != models.RoleIntern {
		t.Errorf("intern role = %v, want INTERN", intern.Role)
	}
	if intern.CollegeID == nil || *intern.CollegeID != collegeID {
		t.Errorf("intern collegeID = %v, want %d", intern.CollegeID, collegeID)
	}
}

func TestDecideRejectLeavesInternUntouched(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	request, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeRejected, "cohort closed")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if request.Status != models.JoinRequestRejected {
		t.Errorf("status = %s, want REJECTED", request.Status)
	}

	cohort, _ := f.repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 0 {
		t.Errorf("occupancy = %d, want 0", cohort.Occupancy)
	}
	intern, _ := f.repos.Users.GetByID(ctx, internID)
	if intern.Role != nil {
		t.Errorf("intern role = %v, want nil", *intern.Role)
	}
}

func TestDecideIsAtMostOnce(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	_, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	if _, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeRejected, ""); err != nil {
		t.Fatalf("first Decide: %v", err)
	}

	// Neither a repeat nor a flip is accepted
	if _, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeRejected, ""); !errors.Is(err, apperrors.ErrRequestAlreadyDecided) {
		t.Errorf("repeat error = %v, want ErrRequestAlreadyDecided", err)
	}
	if _, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeApproved, ""); !errors.Is(err, apperrors.ErrRequestAlreadyDecided) {
		t.Errorf("flip error = %v, want ErrRequestAlreadyDecided", err)
	}
}

func TestDecideRequiresOwningMentor(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	_, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	otherID, err := f.repos.Users.Create(ctx, &models.User{GitLabID: "other", Name: "Other", Email: "other@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := f.service.Decide(ctx, requestID, otherID, models.OutcomeApproved, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}

	// The request is still pending for the real owner
	request, err := f.repos.JoinRequests.GetByID(ctx, requestID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if request.Status != models.JoinRequestPending {
		t.Errorf("status = %s, want PENDING", request.Status)
	}
}

func TestDecideApproveOnFullCohortLeavesRequestPending(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 1)
	_, firstID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	secondIntern, secondID := f.createPendingRequest(t, "intern-2", mentorID, collegeID, cohortID)
	ctx := context.Background()

	if _, err := f.service.Decide(ctx, firstID, mentorID, models.OutcomeApproved, ""); err != nil {
		t.Fatalf("first Decide: %v", err)
	}

	if _, err := f.service.Decide(ctx, secondID, mentorID, models.OutcomeApproved, ""); !errors.Is(err, apperrors.ErrCohortFull) {
		t.Fatalf("second Decide error = %v, want ErrCohortFull", err)
	}

	// A failed capacity check is not a decision
	request, _ := f.repos.JoinRequests.GetByID(ctx, secondID)
	if request.Status != models.JoinRequestPending {
		t.Errorf("status = %s, want PENDING", request.Status)
	}
	intern, _ := f.repos.Users.GetByID(ctx, secondIntern)
	if intern.Role != nil {
		t.Errorf("intern role = %v, want nil", *intern.Role)
	}

	// The mentor can still reject it
	if _, err := f.service.Decide(ctx, secondID, mentorID, models.OutcomeRejected, "no seats left"); err != nil {
		t.Errorf("reject after full: %v", err)
	}
}

func TestConcurrentDecidesHaveOneWinner(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 10)
	_, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	const deciders = 8
	errs := make([]error, deciders)
	var wg sync.WaitGroup
	for i := 0; i < deciders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome := models.OutcomeApproved
			if i%2 == 1 {
				outcome = models.OutcomeRejected
			}
			_, errs[i] = f.service.Decide(ctx, requestID, mentorID, outcome, "")
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrRequestAlreadyDecided):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if losses != deciders-1 {
		t.Errorf("losers = %d, want %d", losses, deciders-1)
	}

	// Occupancy moved at most once
	cohort, _ := f.repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy > 1 {
		t.Errorf("occupancy = %d, want at most 1", cohort.Occupancy)
	}
}

func TestConcurrentApprovalsRespectCapacity(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 1)

	const applicants = 6
	requestIDs := make([]int64, applicants)
	for i := 0; i < applicants; i++ {
		_, requestIDs[i] = f.createPendingRequest(t, "intern-"+string(rune('a'+i)), mentorID, collegeID, cohortID)
	}

	ctx := context.Background()
	errs := make([]error, applicants)
	var wg sync.WaitGroup
	for i := 0; i < applicants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Decide(ctx, requestIDs[i], mentorID, models.OutcomeApproved, "")
		}(i)
	}
	wg.Wait()

	var approved, full int
	for _, err := range errs {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, apperrors.ErrCohortFull):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if approved != 1 {
		t.Errorf("approved = %d, want exactly 1 for capacity 1", approved)
	}
	if full != applicants-1 {
		t.Errorf("full = %d, want %d", full, applicants-1)
	}

	cohort, _ := f.repos.Cohorts.GetByID(ctx, cohortID)
	if cohort.Occupancy != 1 {
		t.Errorf("occupancy = %d, want 1", cohort.Occupancy)
	}
}

func TestApplyAfterRejection(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	if _, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeRejected, "not this time"); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	// The rejected intern is unplaced and may apply again
	request, err := f.service.Apply(ctx, internID, dto.CreateJoinRequestRequest{
		CollegeID: collegeID,
		CohortID:  cohortID,
		Message:   "second try",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if request.Status != models.JoinRequestPending {
		t.Errorf("status = %s, want PENDING", request.Status)
	}

	requests, err := f.repos.JoinRequests.ListByIntern(ctx, internID)
	if err != nil {
		t.Fatalf("ListByIntern: %v", err)
	}
	if len(requests) != 2 {
		t.Errorf("requests = %d, want 2 (ledger keeps the rejected one)", len(requests))
	}
}

func TestApplyRejectsPlacedIdentity(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	if _, err := f.service.Decide(ctx, requestID, mentorID, models.OutcomeApproved, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if _, err := f.service.Apply(ctx, internID, dto.CreateJoinRequestRequest{
		CollegeID: collegeID,
		CohortID:  cohortID,
	}); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestApplyValidatesCatalog(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	ctx := context.Background()

	internID, err := f.repos.Users.Create(ctx, &models.User{GitLabID: "intern-x", Name: "I", Email: "i@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create intern: %v", err)
	}

	if _, err := f.service.Apply(ctx, internID, dto.CreateJoinRequestRequest{CollegeID: 404, CohortID: cohortID}); !errors.Is(err, apperrors.ErrCollegeNotFound) {
		t.Errorf("unknown college error = %v, want ErrCollegeNotFound", err)
	}

	otherCollegeID, _ := f.repos.Colleges.Create(ctx, &models.College{Name: "Other", MentorID: mentorID})
	otherCohortID, _ := f.repos.Cohorts.Create(ctx, &models.Cohort{CollegeID: otherCollegeID, Name: "Spring", Capacity: 5})
	if _, err := f.service.Apply(ctx, internID, dto.CreateJoinRequestRequest{CollegeID: collegeID, CohortID: otherCohortID}); !errors.Is(err, apperrors.ErrCohortMismatch) {
		t.Errorf("mismatch error = %v, want ErrCohortMismatch", err)
	}
}

func TestGetRequestRestrictedToParticipants(t *testing.T) {
	f := newApprovalFixture(t)
	mentorID, collegeID, cohortID := f.createMentorWithCohort(t, 5)
	internID, requestID := f.createPendingRequest(t, "intern-1", mentorID, collegeID, cohortID)
	ctx := context.Background()

	if _, err := f.service.GetRequest(ctx, requestID, internID); err != nil {
		t.Errorf("intern view: %v", err)
	}
	if _, err := f.service.GetRequest(ctx, requestID, mentorID); err != nil {
		t.Errorf("mentor view: %v", err)
	}

	strangerID, _ := f.repos.Users.Create(ctx, &models.User{GitLabID: "stranger", Name: "S", Email: "s@example.com", IsActive: true})
	if _, err := f.service.GetRequest(ctx, requestID, strangerID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger view error = %v, want ErrPermissionDenied", err)
	}
}
