package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrecan/internhub/internal/app/models"
)

// UserStore persists identities and their role assignments. Role mutation
// always replaces the whole (role, scope, assignedBy) tuple.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByGitLabID(ctx context.Context, gitlabID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	RefreshProfile(ctx context.Context, id int64, name, email, avatarURL string) error
	AssignRole(ctx context.Context, id int64, assignment models.RoleAssignment) error
	SetOnboardingComplete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.User, error)
	ListInternsByCollege(ctx context.Context, collegeID int64) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.RoleType) (int64, error)
}

// CollegeStore persists colleges. Delete exists only for the mentor-setup
// compensation path; colleges are otherwise deactivated, not removed.
type CollegeStore interface {
	Create(ctx context.Context, college *models.College) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.College, error)
	ListByMentor(ctx context.Context, mentorID int64) ([]*models.College, error)
	ListActive(ctx context.Context) ([]*models.College, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// CohortStore persists cohorts. Occupancy is never written through this
// interface; the approval decision owns the check-and-increment.
type CohortStore interface {
	Create(ctx context.Context, cohort *models.Cohort) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Cohort, error)
	ListByCollege(ctx context.Context, collegeID int64) ([]*models.Cohort, error)
}

// JoinRequestStore persists join requests and owns the atomic decision
// primitives. Approve and Reject only succeed while the request is still
// pending; concurrent losers get apperrors.ErrRequestAlreadyDecided.
// Approve additionally performs the occupancy check-and-increment and the
// intern role assignment in the same transaction, failing with
// apperrors.ErrCohortFull (request left pending) when no seat remains.
type JoinRequestStore interface {
	Create(ctx context.Context, request *models.JoinRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.JoinRequest, error)
	ListByMentor(ctx context.Context, mentorID int64, status *models.JoinRequestStatus) ([]*models.JoinRequest, error)
	ListByIntern(ctx context.Context, internID int64) ([]*models.JoinRequest, error)
	Approve(ctx context.Context, requestID, reviewerID int64, response string) error
	Reject(ctx context.Context, requestID, reviewerID int64, response string) error
	CountByStatus(ctx context.Context, status models.JoinRequestStatus) (int64, error)
}

// ActivityStore persists GitLab token links and the synced activity read
// model. RecordActivities deduplicates on the (user, type, event id) key,
// so overlapping sync windows are safe to replay.
type ActivityStore interface {
	SaveConnection(ctx context.Context, conn *models.GitLabConnection) error
	GetConnection(ctx context.Context, userID int64) (*models.GitLabConnection, error)
	MarkSynced(ctx context.Context, userID int64, at time.Time) error
	RecordActivities(ctx context.Context, activities []*models.Activity) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Activity, error)
	CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error)
}

// Repositories holds all the store instances
type Repositories struct {
	Users        UserStore
	Colleges     CollegeStore
	Cohorts      CohortStore
	JoinRequests JoinRequestStore
	Activities   ActivityStore
}

// NewRepositories initializes all repositories against a Postgres pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Colleges:     NewCollegeRepository(db),
		Cohorts:      NewCohortRepository(db),
		JoinRequests: NewJoinRequestRepository(db),
		Activities:   NewActivityRepository(db),
	}
}
