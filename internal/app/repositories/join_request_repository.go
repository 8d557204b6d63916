package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/db"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

const joinRequestColumns = `id, intern_id, college_id, cohort_id, mentor_id, message, status,
	mentor_response, reviewed_by, created_at, updated_at`

// JoinRequestRepository handles database operations for join requests and
// owns the decision transaction. Requests are append-only except for the
// one pending -> approved/rejected transition.
type JoinRequestRepository struct {
	db *pgxpool.Pool
}

// NewJoinRequestRepository creates a new JoinRequestRepository
func NewJoinRequestRepository(db *pgxpool.Pool) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// Create inserts a new pending join request and returns its id
func (r *JoinRequestRepository) Create(ctx context.Context, request *models.JoinRequest) (int64, error) {
	query := `
		INSERT INTO join_requests (intern_id, college_id, cohort_id, mentor_id, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		request.InternID, request.CollegeID, request.CohortID, request.MentorID,
		request.Message, models.JoinRequestPending).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves a join request by id
func (r *JoinRequestRepository) GetByID(ctx context.Context, id int64) (*models.JoinRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM join_requests WHERE id = $1", joinRequestColumns)

	var request models.JoinRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.InternID, &request.CollegeID, &request.CohortID,
		&request.MentorID, &request.Message, &request.Status,
		&request.MentorResponse, &request.ReviewedBy,
		&request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &request, nil
}

// ListByMentor retrieves requests against the mentor's colleges, optionally
// filtered by status, oldest first so the queue reads top-down.
func (r *JoinRequestRepository) ListByMentor(ctx context.Context, mentorID int64, status *models.JoinRequestStatus) ([]*models.JoinRequest, error) {
	pred := squirrel.And{squirrel.Eq{"mentor_id": mentorID}}
	if status != nil {
		pred = append(pred, squirrel.Eq{"status": *status})
	}
	return r.list(ctx, pred, "created_at ASC")
}

// ListByIntern retrieves the requests an intern has submitted, newest first
func (r *JoinRequestRepository) ListByIntern(ctx context.Context, internID int64) ([]*models.JoinRequest, error) {
	return r.list(ctx, squirrel.Eq{"intern_id": internID}, "created_at DESC")
}

func (r *JoinRequestRepository) list(ctx context.Context, pred interface{}, order string) ([]*models.JoinRequest, error) {
	builder := squirrel.Select(joinRequestColumns).
		From("join_requests").
		Where(pred).
		OrderBy(order).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	requests := []*models.JoinRequest{}
	for rows.Next() {
		var request models.JoinRequest
		err := rows.Scan(
			&request.ID, &request.InternID, &request.CollegeID, &request.CohortID,
			&request.MentorID, &request.Message, &request.Status,
			&request.MentorResponse, &request.ReviewedBy,
			&request.CreatedAt, &request.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return requests, nil
}

// Approve applies the pending -> approved transition together with its side
// effects in one transaction: the row lock plus the status recheck make the
// transition at-most-once, the conditional occupancy increment enforces
// capacity at decision time, and the intern's role assignment lands with the
// same commit. A full cohort aborts the transaction and leaves the request
// pending.
func (r *JoinRequestRepository) Approve(ctx context.Context, requestID, reviewerID int64, response string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var internID, collegeID, cohortID int64
		var status models.JoinRequestStatus
		err := tx.QueryRow(ctx, `
			SELECT intern_id, college_id, cohort_id, status
			FROM join_requests
			WHERE id = $1
			FOR UPDATE
		`, requestID).Scan(&internID, &collegeID, &cohortID, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRequestNotFound
			}
			return fmt.Errorf("error locking join request: %w", err)
		}

		if status != models.JoinRequestPending {
			return apperrors.ErrRequestAlreadyDecided
		}

		// Check-and-increment; the WHERE clause is the capacity invariant
		result, err := tx.Exec(ctx, `
			UPDATE cohorts
			SET occupancy = occupancy + 1
			WHERE id = $1 AND occupancy < capacity
		`, cohortID)
		if err != nil {
			return fmt.Errorf("error incrementing occupancy: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrCohortFull
		}

		_, err = tx.Exec(ctx, `
			UPDATE join_requests
			SET status = $1, mentor_response = $2, reviewed_by = $3, updated_at = NOW()
			WHERE id = $4
		`, models.JoinRequestApproved, response, reviewerID, requestID)
		if err != nil {
			return fmt.Errorf("error updating join request: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE users
			SET role = $1, college_id = $2, assigned_by = $3, updated_at = NOW()
			WHERE id = $4
		`, models.RoleIntern, collegeID, fmt.Sprintf("%d", reviewerID), internID)
		if err != nil {
			return fmt.Errorf("error assigning intern role: %w", err)
		}

		return nil
	})
}

// Reject applies the pending -> rejected transition. The conditional UPDATE
// doubles as the optimistic-concurrency guard: zero rows affected means a
// concurrent decision got there first (or the request does not exist).
func (r *JoinRequestRepository) Reject(ctx context.Context, requestID, reviewerID int64, response string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE join_requests
		SET status = $1, mentor_response = $2, reviewed_by = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, models.JoinRequestRejected, response, reviewerID, requestID, models.JoinRequestPending)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish missing from already decided
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM join_requests WHERE id = $1)`, requestID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking join request: %w", err)
		}
		if !exists {
			return apperrors.ErrRequestNotFound
		}
		return apperrors.ErrRequestAlreadyDecided
	}

	return nil
}

// CountByStatus counts join requests in the given status
func (r *JoinRequestRepository) CountByStatus(ctx context.Context, status models.JoinRequestStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM join_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}
