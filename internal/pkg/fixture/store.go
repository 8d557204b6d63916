// Package fixture provides in-memory implementations of the persistence
// stores and of the identity resolver. They back demo mode and the test
// suite, and honor the same concurrency semantics as the Postgres layer:
// at-most-once decisions, capacity check-and-increment, whole-tuple role
// replacement.
package fixture

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

// Store is a mutex-guarded in-memory database shared by the four store
// implementations.
type Store struct {
	mu sync.Mutex

	users        map[int64]*models.User
	colleges     map[int64]*models.College
	cohorts      map[int64]*models.Cohort
	joinRequests map[int64]*models.JoinRequest
	connections  map[int64]*models.GitLabConnection
	activities   map[int64]*models.Activity

	nextUserID        int64
	nextCollegeID     int64
	nextCohortID      int64
	nextJoinRequestID int64
	nextConnectionID  int64
	nextActivityID    int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:        map[int64]*models.User{},
		colleges:     map[int64]*models.College{},
		cohorts:      map[int64]*models.Cohort{},
		joinRequests: map[int64]*models.JoinRequest{},
		connections:  map[int64]*models.GitLabConnection{},
		activities:   map[int64]*models.Activity{},
	}
}

// NewRepositories wires the in-memory store into the standard repository
// container so the rest of the application cannot tell the backends apart.
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		Users:        &UserStore{s: s},
		Colleges:     &CollegeStore{s: s},
		Cohorts:      &CohortStore{s: s},
		JoinRequests: &JoinRequestStore{s: s},
		Activities:   &ActivityStore{s: s},
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneCollege(c *models.College) *models.College {
	cp := *c
	cp.Mentor = nil
	cp.Cohorts = nil
	return &cp
}

func cloneCohort(c *models.Cohort) *models.Cohort {
	cp := *c
	cp.College = nil
	return &cp
}

func cloneJoinRequest(r *models.JoinRequest) *models.JoinRequest {
	cp := *r
	cp.Intern = nil
	cp.College = nil
	cp.Cohort = nil
	return &cp
}

// UserStore is the in-memory repositories.UserStore
type UserStore struct {
	s *Store
}

// Create inserts a new user
func (st *UserStore) Create(_ context.Context, user *models.User) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	for _, existing := range st.s.users {
		if existing.GitLabID != "" && existing.GitLabID == user.GitLabID {
			return 0, apperrors.ErrIdentityExists
		}
	}

	st.s.nextUserID++
	c := cloneUser(user)
	c.ID = st.s.nextUserID
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	st.s.users[c.ID] = c
	return c.ID, nil
}

// GetByID retrieves a user by id
func (st *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	user, ok := st.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetByGitLabID retrieves a user by external account id
func (st *UserStore) GetByGitLabID(_ context.Context, gitlabID string) (*models.User, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	for _, user := range st.s.users {
		if user.GitLabID == gitlabID {
			return cloneUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (st *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	for _, user := range st.s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// RefreshProfile updates profile fields and the login timestamp
func (st *UserStore) RefreshProfile(_ context.Context, id int64, name, email, avatarURL string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	user, ok := st.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Name = name
	user.Email = email
	user.AvatarURL = &avatarURL
	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	return nil
}

// AssignRole replaces the role assignment tuple as a whole
func (st *UserStore) AssignRole(_ context.Context, id int64, assignment models.RoleAssignment) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	user, ok := st.s.users[id]
	if !ok || !user.IsActive {
		return apperrors.ErrUserNotFound
	}
	role := assignment.Role
	assignedBy := assignment.AssignedBy
	user.Role = &role
	user.CollegeID = assignment.CollegeID
	user.AssignedBy = &assignedBy
	user.UpdatedAt = time.Now()
	return nil
}

// SetOnboardingComplete marks onboarding finished
func (st *UserStore) SetOnboardingComplete(_ context.Context, id int64) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	user, ok := st.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.OnboardingDone = true
	user.UpdatedAt = time.Now()
	return nil
}

// Deactivate disables a user
func (st *UserStore) Deactivate(_ context.Context, id int64) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	user, ok := st.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsActive = false
	user.UpdatedAt = time.Now()
	return nil
}

// List returns all active users
func (st *UserStore) List(_ context.Context) ([]*models.User, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	users := []*models.User{}
	for _, user := range st.s.users {
		if user.IsActive {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

// ListInternsByCollege returns the active interns placed in a college
func (st *UserStore) ListInternsByCollege(_ context.Context, collegeID int64) ([]*models.User, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	interns := []*models.User{}
	for id := int64(1); id <= st.s.nextUserID; id++ {
		user, ok := st.s.users[id]
		if !ok || !user.IsActive || user.Role == nil || *user.Role != models.RoleIntern {
			continue
		}
		if user.CollegeID != nil && *user.CollegeID == collegeID {
			interns = append(interns, cloneUser(user))
		}
	}
	return interns, nil
}

// CountByRole counts active users with the given role
func (st *UserStore) CountByRole(_ context.Context, role models.RoleType) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var count int64
	for _, user := range st.s.users {
		if user.IsActive && user.Role != nil && *user.Role == role {
			count++
		}
	}
	return count, nil
}

// CollegeStore is the in-memory repositories.CollegeStore
type CollegeStore struct {
	s *Store
}

// Create inserts a new college
func (st *CollegeStore) Create(_ context.Context, college *models.College) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	st.s.nextCollegeID++
	c := cloneCollege(college)
	c.ID = st.s.nextCollegeID
	c.IsActive = true
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	st.s.colleges[c.ID] = c
	return c.ID, nil
}

// GetByID retrieves a college by id
func (st *CollegeStore) GetByID(_ context.Context, id int64) (*models.College, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	college, ok := st.s.colleges[id]
	if !ok {
		return nil, apperrors.ErrCollegeNotFound
	}
	return cloneCollege(college), nil
}

// ListByMentor returns the active colleges owned by a mentor
func (st *CollegeStore) ListByMentor(_ context.Context, mentorID int64) ([]*models.College, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	colleges := []*models.College{}
	for _, college := range st.s.colleges {
		if college.MentorID == mentorID && college.IsActive {
			colleges = append(colleges, cloneCollege(college))
		}
	}
	return colleges, nil
}

// ListActive returns all active colleges
func (st *CollegeStore) ListActive(_ context.Context) ([]*models.College, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	colleges := []*models.College{}
	for _, college := range st.s.colleges {
		if college.IsActive {
			colleges = append(colleges, cloneCollege(college))
		}
	}
	return colleges, nil
}

// Delete removes a college row (compensation path only)
func (st *CollegeStore) Delete(_ context.Context, id int64) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, ok := st.s.colleges[id]; !ok {
		return apperrors.ErrCollegeNotFound
	}
	delete(st.s.colleges, id)
	return nil
}

// Count counts active colleges
func (st *CollegeStore) Count(_ context.Context) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var count int64
	for _, college := range st.s.colleges {
		if college.IsActive {
			count++
		}
	}
	return count, nil
}

// CohortStore is the in-memory repositories.CohortStore. FailCreate, when
// set, makes the next Create call fail; tests use it to drive the mentor
// setup compensation path.
type CohortStore struct {
	s *Store

	FailCreate error
}

// Create inserts a new cohort under an existing college
func (st *CohortStore) Create(_ context.Context, cohort *models.Cohort) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if st.FailCreate != nil {
		err := st.FailCreate
		st.FailCreate = nil
		return 0, err
	}

	if _, ok := st.s.colleges[cohort.CollegeID]; !ok {
		return 0, apperrors.ErrCollegeNotFound
	}

	st.s.nextCohortID++
	c := cloneCohort(cohort)
	c.ID = st.s.nextCohortID
	c.Occupancy = 0
	c.CreatedAt = time.Now()
	st.s.cohorts[c.ID] = c
	return c.ID, nil
}

// GetByID retrieves a cohort by id
func (st *CohortStore) GetByID(_ context.Context, id int64) (*models.Cohort, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	cohort, ok := st.s.cohorts[id]
	if !ok {
		return nil, apperrors.ErrCohortNotFound
	}
	return cloneCohort(cohort), nil
}

// ListByCollege retrieves the cohorts of a college
func (st *CohortStore) ListByCollege(_ context.Context, collegeID int64) ([]*models.Cohort, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	cohorts := []*models.Cohort{}
	for id := int64(1); id <= st.s.nextCohortID; id++ {
		if cohort, ok := st.s.cohorts[id]; ok && cohort.CollegeID == collegeID {
			cohorts = append(cohorts, cloneCohort(cohort))
		}
	}
	return cohorts, nil
}

// JoinRequestStore is the in-memory repositories.JoinRequestStore
type JoinRequestStore struct {
	s *Store
}

// Create inserts a new pending join request
func (st *JoinRequestStore) Create(_ context.Context, request *models.JoinRequest) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	st.s.nextJoinRequestID++
	c := cloneJoinRequest(request)
	c.ID = st.s.nextJoinRequestID
	c.Status = models.JoinRequestPending
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	st.s.joinRequests[c.ID] = c
	return c.ID, nil
}

// GetByID retrieves a join request by id
func (st *JoinRequestStore) GetByID(_ context.Context, id int64) (*models.JoinRequest, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	request, ok := st.s.joinRequests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	return cloneJoinRequest(request), nil
}

// ListByMentor retrieves requests against the mentor's colleges,
// oldest first
func (st *JoinRequestStore) ListByMentor(_ context.Context, mentorID int64, status *models.JoinRequestStatus) ([]*models.JoinRequest, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	requests := []*models.JoinRequest{}
	for id := int64(1); id <= st.s.nextJoinRequestID; id++ {
		request, ok := st.s.joinRequests[id]
		if !ok || request.MentorID != mentorID {
			continue
		}
		if status != nil && request.Status != *status {
			continue
		}
		requests = append(requests, cloneJoinRequest(request))
	}
	return requests, nil
}

// ListByIntern retrieves the requests an intern submitted, newest first
func (st *JoinRequestStore) ListByIntern(_ context.Context, internID int64) ([]*models.JoinRequest, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	requests := []*models.JoinRequest{}
	for id := st.s.nextJoinRequestID; id >= 1; id-- {
		if request, ok := st.s.joinRequests[id]; ok && request.InternID == internID {
			requests = append(requests, cloneJoinRequest(request))
		}
	}
	return requests, nil
}

// Approve applies pending -> approved with the capacity check-and-increment
// and the intern role assignment under the store lock, mirroring the
// Postgres transaction.
func (st *JoinRequestStore) Approve(_ context.Context, requestID, reviewerID int64, response string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	request, ok := st.s.joinRequests[requestID]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	if request.Status != models.JoinRequestPending {
		return apperrors.ErrRequestAlreadyDecided
	}

	cohort, ok := st.s.cohorts[request.CohortID]
	if !ok {
		return apperrors.ErrCohortNotFound
	}
	if cohort.Occupancy >= cohort.Capacity {
		return apperrors.ErrCohortFull
	}

	intern, ok := st.s.users[request.InternID]
	if !ok {
		return apperrors.ErrUserNotFound
	}

	now := time.Now()
	cohort.Occupancy++
	request.Status = models.JoinRequestApproved
	request.MentorResponse = response
	request.ReviewedBy = &reviewerID
	request.UpdatedAt = now

	role := models.RoleIntern
	assignedBy := strconv.FormatInt(reviewerID, 10)
	collegeID := request.CollegeID
	intern.Role = &role
	intern.CollegeID = &collegeID
	intern.AssignedBy = &assignedBy
	intern.UpdatedAt = now

	return nil
}

// Reject applies pending -> rejected with no side effects
func (st *JoinRequestStore) Reject(_ context.Context, requestID, reviewerID int64, response string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	request, ok := st.s.joinRequests[requestID]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	if request.Status != models.JoinRequestPending {
		return apperrors.ErrRequestAlreadyDecided
	}

	request.Status = models.JoinRequestRejected
	request.MentorResponse = response
	request.ReviewedBy = &reviewerID
	request.UpdatedAt = time.Now()
	return nil
}

// CountByStatus counts join requests in the given status
func (st *JoinRequestStore) CountByStatus(_ context.Context, status models.JoinRequestStatus) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var count int64
	for _, request := range st.s.joinRequests {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

func cloneConnection(c *models.GitLabConnection) *models.GitLabConnection {
	cp := *c
	return &cp
}

func cloneActivity(a *models.Activity) *models.Activity {
	cp := *a
	return &cp
}

// ActivityStore is the in-memory repositories.ActivityStore
type ActivityStore struct {
	s *Store
}

// SaveConnection upserts the user's token link and resets the sync cursor
func (st *ActivityStore) SaveConnection(_ context.Context, conn *models.GitLabConnection) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	c := cloneConnection(conn)
	c.LastSyncedAt = nil
	if existing, ok := st.s.connections[conn.UserID]; ok {
		c.ID = existing.ID
	} else {
		st.s.nextConnectionID++
		c.ID = st.s.nextConnectionID
	}
	st.s.connections[c.UserID] = c
	conn.ID = c.ID
	return nil
}

// GetConnection retrieves the user's token link
func (st *ActivityStore) GetConnection(_ context.Context, userID int64) (*models.GitLabConnection, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	conn, ok := st.s.connections[userID]
	if !ok {
		return nil, apperrors.ErrGitLabNotConnected
	}
	return cloneConnection(conn), nil
}

// MarkSynced advances the user's sync cursor
func (st *ActivityStore) MarkSynced(_ context.Context, userID int64, at time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	conn, ok := st.s.connections[userID]
	if !ok {
		return apperrors.ErrGitLabNotConnected
	}
	conn.LastSyncedAt = &at
	return nil
}

// RecordActivities inserts synced events, skipping duplicates of the
// (user, type, event id) key, and reports how many were written
func (st *ActivityStore) RecordActivities(_ context.Context, activities []*models.Activity) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var recorded int64
	for _, activity := range activities {
		if st.activityExists(activity) {
			continue
		}
		st.s.nextActivityID++
		c := cloneActivity(activity)
		c.ID = st.s.nextActivityID
		c.CreatedAt = time.Now()
		st.s.activities[c.ID] = c
		recorded++
	}
	return recorded, nil
}

func (st *ActivityStore) activityExists(activity *models.Activity) bool {
	for _, existing := range st.s.activities {
		if existing.UserID == activity.UserID &&
			existing.Type == activity.Type &&
			existing.GitLabEventID == activity.GitLabEventID {
			return true
		}
	}
	return false
}

// ListByUser retrieves the user's most recent activities, newest first
func (st *ActivityStore) ListByUser(_ context.Context, userID int64, limit int) ([]*models.Activity, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	activities := []*models.Activity{}
	for id := st.s.nextActivityID; id >= 1; id-- {
		activity, ok := st.s.activities[id]
		if !ok || activity.UserID != userID {
			continue
		}
		activities = append(activities, cloneActivity(activity))
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].OccurredAt.After(activities[j].OccurredAt)
	})
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// CountByUserSince counts the user's activities inside the reporting window
func (st *ActivityStore) CountByUserSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var count int64
	for _, activity := range st.s.activities {
		if activity.UserID == userID && !activity.OccurredAt.Before(since) {
			count++
		}
	}
	return count, nil
}
