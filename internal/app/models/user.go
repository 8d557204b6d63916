package models

import (
	"time"
)

// User defines the user model based on the 'users' table. A user is the
// internal identity created on first successful GitLab authentication;
// the role columns together form the role assignment tuple and are only
// ever replaced as a whole.
type User struct {
	ID             int64      `json:"id" db:"id" example:"1"`                                              // Unique identifier for the user
	GitLabID       string     `json:"gitlabId" db:"gitlab_id" example:"4281337"`                           // Stable external account id
	GitLabUsername string     `json:"gitlabUsername" db:"gitlab_username" example:"jdoe"`                  // External account handle
	Name           string     `json:"name" db:"name" example:"John Doe"`                                   // Display name
	Email          string     `json:"email" db:"email" example:"jdoe@example.com"`                         // User's email address
	AvatarURL      *string    `json:"avatarUrl,omitempty" db:"avatar_url"`                                 // Avatar reference (nullable)
	Password       *string    `json:"-" db:"password"`                                                     // Bcrypt hash, set only for the bootstrap admin
	Role           *RoleType  `json:"role,omitempty" db:"role" example:"MENTOR"`                           // Assigned role, nil until onboarding/approval commits one
	CollegeID      *int64     `json:"collegeId,omitempty" db:"college_id"`                                 // Organizational scope of the role (nullable)
	AssignedBy     *string    `json:"assignedBy,omitempty" db:"assigned_by" example:"system"`              // Who granted the role; "system" for bootstrap
	OnboardingDone bool       `json:"onboardingComplete" db:"onboarding_complete" example:"true"`          // Whether the onboarding sequence finished
	IsActive       bool       `json:"isActive" db:"is_active" example:"true"`                              // Users are deactivated, never deleted
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`                            // Timestamp of the last login (nullable)
	CreatedAt      time.Time  `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"`            // Timestamp when the user was created
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"`            // Timestamp when the user was last updated

	// Relations (populated when needed)
	College *College `json:"college,omitempty"`
}

// HasRole reports whether a role assignment has been committed for the user.
func (u *User) HasRole() bool {
	return u.Role != nil
}

// RoleAssignment is the (role, scope, grantedBy) tuple bound to an identity.
// Invariant: at most one active assignment per identity; replaced whole,
// never patched field by field.
type RoleAssignment struct {
	Role       RoleType `json:"role"`
	CollegeID  *int64   `json:"collegeId,omitempty"`
	AssignedBy string   `json:"assignedBy"`
}
