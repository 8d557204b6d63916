package models

import "time"

// ActivityType classifies a tracked GitLab event
type ActivityType string

const (
	ActivityCommit       ActivityType = "COMMIT"
	ActivityPush         ActivityType = "PUSH"
	ActivityIssue        ActivityType = "ISSUE"
	ActivityMergeRequest ActivityType = "MERGE_REQUEST"
	ActivityReview       ActivityType = "REVIEW"
	ActivityComment      ActivityType = "COMMENT"
)

// GitLabConnection links an identity to a GitLab personal access token used
// for activity syncing. At most one connection per user; reconnecting
// replaces the stored token.
type GitLabConnection struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	AccessToken  string     `json:"-" db:"access_token"`
	ConnectedAt  time.Time  `json:"connectedAt" db:"connected_at"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty" db:"last_synced_at"`
}

// Activity is one synced GitLab event. The (user, type, gitlab event id)
// triple is unique, so re-syncing an overlapping window never duplicates
// rows.
type Activity struct {
	ID            int64        `json:"id" db:"id"`
	UserID        int64        `json:"userId" db:"user_id"`
	Type          ActivityType `json:"type" db:"type" example:"PUSH"`
	GitLabEventID string       `json:"gitlabEventId" db:"gitlab_event_id"`
	ProjectID     int64        `json:"projectId" db:"project_id"`
	Title         string       `json:"title" db:"title"`
	OccurredAt    time.Time    `json:"occurredAt" db:"occurred_at"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}
