package models

import "time"

// Cohort capacity bounds
const (
	CohortCapacityMin     = 1
	CohortCapacityMax     = 100
	CohortCapacityDefault = 20
)

// Cohort represents a bounded-capacity intern group under a college.
// Occupancy counts approved join requests and must never exceed Capacity;
// the only code path that increments it is the approval decision.
type Cohort struct {
	ID          int64      `json:"id" db:"id"`
	CollegeID   int64      `json:"collegeId" db:"college_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	Capacity    int        `json:"capacity" db:"capacity"`
	Occupancy   int        `json:"occupancy" db:"occupancy"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	// Related entities
	College *College `json:"college,omitempty"`
}

// IsFull reports whether the cohort has no remaining seats.
func (c *Cohort) IsFull() bool {
	return c.Occupancy >= c.Capacity
}
