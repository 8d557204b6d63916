package dto

import "time"

// ConnectGitLabRequest carries the personal access token used for activity
// syncing
type ConnectGitLabRequest struct {
	Token string `json:"token" binding:"required,min=20"`
}

// GitLabConnectionResponse describes the caller's token link. The token
// itself is never echoed back.
type GitLabConnectionResponse struct {
	ConnectedAt  time.Time  `json:"connectedAt"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// SyncActivitiesResponse reports the outcome of one sync run
type SyncActivitiesResponse struct {
	Fetched  int       `json:"fetched"`
	Recorded int64     `json:"recorded"`
	SyncedAt time.Time `json:"syncedAt"`
}

// ActivityResponse represents one synced GitLab event
type ActivityResponse struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type" example:"PUSH"`
	ProjectID  int64     `json:"projectId"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityListResponse represents a list of synced activities
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
}

// TeamMemberActivity summarizes one intern's activity inside the reporting
// window
type TeamMemberActivity struct {
	UserID         int64      `json:"userId"`
	Name           string     `json:"name"`
	GitLabUsername string     `json:"gitlabUsername"`
	CollegeID      int64      `json:"collegeId"`
	ActivityCount  int64      `json:"activityCount"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
}

// TeamActivityResponse is the mentor's view of their interns' activity
type TeamActivityResponse struct {
	Period  string               `json:"period" example:"30d"`
	Since   time.Time            `json:"since"`
	Members []TeamMemberActivity `json:"members"`
}
