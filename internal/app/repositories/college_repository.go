package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

const collegeColumns = "id, name, description, location, website, mentor_id, is_active, created_at, updated_at"

// CollegeRepository handles database operations for colleges
type CollegeRepository struct {
	db *pgxpool.Pool
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// Create inserts a new college and returns its id. Name duplicates are
// allowed; there is no uniqueness constraint to trip.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) (int64, error) {
	query := `
		INSERT INTO colleges (name, description, location, website, mentor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		college.Name, college.Description, college.Location, college.Website,
		college.MentorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves a college by id
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	query := fmt.Sprintf("SELECT %s FROM colleges WHERE id = $1", collegeColumns)

	var college models.College
	err := r.db.QueryRow(ctx, query, id).Scan(
		&college.ID, &college.Name, &college.Description, &college.Location,
		&college.Website, &college.MentorID, &college.IsActive,
		&college.CreatedAt, &college.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &college, nil
}

// ListByMentor retrieves the colleges owned by a mentor
func (r *CollegeRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.College, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"mentor_id": mentorID},
		squirrel.Eq{"is_active": true},
	})
}

// ListActive retrieves all active colleges, newest first
func (r *CollegeRepository) ListActive(ctx context.Context) ([]*models.College, error) {
	return r.list(ctx, squirrel.Eq{"is_active": true})
}

func (r *CollegeRepository) list(ctx context.Context, pred interface{}) ([]*models.College, error) {
	builder := squirrel.Select(collegeColumns).
		From("colleges").
		Where(pred).
		OrderBy("created_at DESC").
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

	colleges := []*models.College{}
	for rows.Next() {
		var college models.College
		err := rows.Scan(
			&college.ID, &college.Name, &college.Description, &college.Location,
			&college.Website, &college.MentorID, &college.IsActive,
			&college.CreatedAt, &college.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		colleges = append(colleges, &college)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return colleges, nil
}

// Delete removes a college row. Only the mentor-setup compensation path
// uses this; a college observed by anyone else is deactivated instead.
func (r *CollegeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCollegeNotFound
	}

	return nil
}

// Count counts active colleges
func (r *CollegeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM colleges WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}
