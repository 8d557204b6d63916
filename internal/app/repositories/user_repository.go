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
	"github.com/emrecan/internhub/internal/pkg/dberrors"
)

const userColumns = `id, gitlab_id, gitlab_username, name, email, avatar_url, password,
	role, college_id, assigned_by, onboarding_complete, is_active, last_login_at,
	created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (gitlab_id, gitlab_username, name, email, avatar_url, password,
			role, college_id, assigned_by, onboarding_complete, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		user.GitLabID, user.GitLabUsername, user.Name, user.Email, user.AvatarURL,
		user.Password, user.Role, user.CollegeID, user.AssignedBy,
		user.OnboardingDone, user.IsActive).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_gitlab_id_key") {
			return 0, apperrors.ErrIdentityExists
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByGitLabID retrieves a user by the stable external account id
func (r *UserRepository) GetByGitLabID(ctx context.Context, gitlabID string) (*models.User, error) {
	return r.getOne(ctx, "gitlab_id = $1", gitlabID)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, where)

	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.GitLabID, &user.GitLabUsername, &user.Name, &user.Email,
		&user.AvatarURL, &user.Password, &user.Role, &user.CollegeID, &user.AssignedBy,
		&user.OnboardingDone, &user.IsActive, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &user, nil
}

// RefreshProfile updates profile fields on login and touches last_login_at.
// Identity and role columns are untouched.
func (r *UserRepository) RefreshProfile(ctx context.Context, id int64, name, email, avatarURL string) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, avatar_url = $3, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, name, email, avatarURL, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// AssignRole replaces the user's role assignment tuple as a whole
func (r *UserRepository) AssignRole(ctx context.Context, id int64, assignment models.RoleAssignment) error {
	query := `
		UPDATE users
		SET role = $1, college_id = $2, assigned_by = $3, updated_at = NOW()
		WHERE id = $4 AND is_active = TRUE
	`

	result, err := r.db.Exec(ctx, query, assignment.Role, assignment.CollegeID, assignment.AssignedBy, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// SetOnboardingComplete marks the onboarding sequence finished for a user
func (r *UserRepository) SetOnboardingComplete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET onboarding_complete = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Deactivate disables a user account. Rows are never deleted.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// List retrieves all active users ordered by creation time
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	builder := squirrel.Select(userColumns).
		From("users").
		Where("is_active = TRUE").
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

	users := []*models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.GitLabID, &user.GitLabUsername, &user.Name, &user.Email,
			&user.AvatarURL, &user.Password, &user.Role, &user.CollegeID, &user.AssignedBy,
			&user.OnboardingDone, &user.IsActive, &user.LastLoginAt,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// ListInternsByCollege retrieves the active interns placed in a college
func (r *UserRepository) ListInternsByCollege(ctx context.Context, collegeID int64) ([]*models.User, error) {
	builder := squirrel.Select(userColumns).
		From("users").
		Where("college_id = ? AND role = ? AND is_active = TRUE", collegeID, models.RoleIntern).
		OrderBy("name").
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

	users := []*models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.GitLabID, &user.GitLabUsername, &user.Name, &user.Email,
			&user.AvatarURL, &user.Password, &user.Role, &user.CollegeID, &user.AssignedBy,
			&user.OnboardingDone, &user.IsActive, &user.LastLoginAt,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// CountByRole counts active users holding the given role
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND is_active = TRUE`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}
