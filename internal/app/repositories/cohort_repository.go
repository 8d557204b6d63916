package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/dberrors"
)

const cohortColumns = "id, college_id, name, description, start_date, end_date, capacity, occupancy, created_at"

// CohortRepository handles database operations for cohorts
type CohortRepository struct {
	db *pgxpool.Pool
}

// NewCohortRepository creates a new CohortRepository
func NewCohortRepository(db *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{db: db}
}

// Create inserts a new cohort under an existing college and returns its id
func (r *CohortRepository) Create(ctx context.Context, cohort *models.Cohort) (int64, error) {
	query := `
		INSERT INTO cohorts (college_id, name, description, start_date, end_date, capacity, occupancy)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		cohort.CollegeID, cohort.Name, cohort.Description,
		cohort.StartDate, cohort.EndDate, cohort.Capacity).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "cohorts_college_id_fkey") {
			return 0, apperrors.ErrCollegeNotFound
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves a cohort by id
func (r *CohortRepository) GetByID(ctx context.Context, id int64) (*models.Cohort, error) {
	query := fmt.Sprintf("SELECT %s FROM cohorts WHERE id = $1", cohortColumns)

	var cohort models.Cohort
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cohort.ID, &cohort.CollegeID, &cohort.Name, &cohort.Description,
		&cohort.StartDate, &cohort.EndDate, &cohort.Capacity, &cohort.Occupancy,
		&cohort.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCohortNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &cohort, nil
}

// ListByCollege retrieves the cohorts of a college in creation order
func (r *CohortRepository) ListByCollege(ctx context.Context, collegeID int64) ([]*models.Cohort, error) {
	query := fmt.Sprintf("SELECT %s FROM cohorts WHERE college_id = $1 ORDER BY id", cohortColumns)

	rows, err := r.db.Query(ctx, query, collegeID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	cohorts := []*models.Cohort{}
	for rows.Next() {
		var cohort models.Cohort
		err := rows.Scan(
			&cohort.ID, &cohort.CollegeID, &cohort.Name, &cohort.Description,
			&cohort.StartDate, &cohort.EndDate, &cohort.Capacity, &cohort.Occupancy,
			&cohort.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		cohorts = append(cohorts, &cohort)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return cohorts, nil
}
