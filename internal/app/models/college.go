package models

import "time"

// College represents a top-level organizational unit owned by a mentor.
// Name uniqueness is deliberately not enforced; two mentors may register
// colleges with the same name.
type College struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Website     string    `json:"website" db:"website"`
	MentorID    int64     `json:"mentorId" db:"mentor_id"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Mentor  *User     `json:"mentor,omitempty"`
	Cohorts []*Cohort `json:"cohorts,omitempty"`
}
