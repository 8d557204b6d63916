package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
)

const activityColumns = "id, user_id, type, gitlab_event_id, project_id, title, occurred_at, created_at"

// ActivityRepository handles database operations for GitLab connections and
// synced activities
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// SaveConnection upserts the user's GitLab token link. Reconnecting replaces
// the stored token and resets the sync cursor.
func (r *ActivityRepository) SaveConnection(ctx context.Context, conn *models.GitLabConnection) error {
	query := `
		INSERT INTO gitlab_connections (user_id, access_token, connected_at, last_synced_at)
		VALUES ($1, $2, $3, NULL)
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    connected_at = EXCLUDED.connected_at,
		    last_synced_at = NULL
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, conn.UserID, conn.AccessToken, conn.ConnectedAt).Scan(&conn.ID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetConnection retrieves the user's GitLab token link
func (r *ActivityRepository) GetConnection(ctx context.Context, userID int64) (*models.GitLabConnection, error) {
	query := `
		SELECT id, user_id, access_token, connected_at, last_synced_at
		FROM gitlab_connections WHERE user_id = $1
	`

	var conn models.GitLabConnection
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&conn.ID, &conn.UserID, &conn.AccessToken, &conn.ConnectedAt, &conn.LastSyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGitLabNotConnected
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &conn, nil
}

// MarkSynced advances the user's sync cursor
func (r *ActivityRepository) MarkSynced(ctx context.Context, userID int64, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE gitlab_connections SET last_synced_at = $1 WHERE user_id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrGitLabNotConnected
	}
	return nil
}

// RecordActivities inserts synced events, skipping ones already recorded,
// and reports how many rows were actually written.
func (r *ActivityRepository) RecordActivities(ctx context.Context, activities []*models.Activity) (int64, error) {
	query := `
		INSERT INTO activities (user_id, type, gitlab_event_id, project_id, title, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, type, gitlab_event_id) DO NOTHING
	`

	var recorded int64
	for _, activity := range activities {
		result, err := r.db.Exec(ctx, query,
			activity.UserID, activity.Type, activity.GitLabEventID,
			activity.ProjectID, activity.Title, activity.OccurredAt)
		if err != nil {
			return recorded, fmt.Errorf("error executing query: %w", err)
		}
		recorded += result.RowsAffected()
	}
	return recorded, nil
}

// ListByUser retrieves the user's most recent activities, newest first
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Activity, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM activities WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2",
		activityColumns)

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		var activity models.Activity
		err := rows.Scan(
			&activity.ID, &activity.UserID, &activity.Type, &activity.GitLabEventID,
			&activity.ProjectID, &activity.Title, &activity.OccurredAt, &activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		activities = append(activities, &activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return activities, nil
}

// CountByUserSince counts the user's activities inside the reporting window
func (r *ActivityRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1 AND occurred_at >= $2`,
		userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}
