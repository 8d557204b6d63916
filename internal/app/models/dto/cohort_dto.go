package dto

import "time"

// CohortResponse represents basic cohort information
type CohortResponse struct {
	ID          int64      `json:"id"`
	CollegeID   int64      `json:"collegeId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Capacity    int        `json:"capacity"`
	Occupancy   int        `json:"occupancy"`
	IsFull      bool       `json:"isFull"`
}

// CreateCohortRequest represents cohort creation data. Capacity defaults
// when omitted; start and end dates are optional but end must follow start.
type CreateCohortRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1,max=100"`
}

// CohortListResponse represents the cohorts of a college
type CohortListResponse struct {
	Cohorts []CohortResponse `json:"cohorts"`
}
