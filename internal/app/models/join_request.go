package models

import "time"

// JoinRequest is an intern's application to a specific cohort. Requests are
// kept forever as an audit trail; only their status field changes, exactly
// once, when the owning mentor decides.
type JoinRequest struct {
	ID             int64             `json:"id" db:"id"`
	InternID       int64             `json:"internId" db:"intern_id"`
	CollegeID      int64             `json:"collegeId" db:"college_id"`
	CohortID       int64             `json:"cohortId" db:"cohort_id"`
	MentorID       int64             `json:"mentorId" db:"mentor_id"` // owner of the referenced college at submission time
	Message        string            `json:"message" db:"message"`
	Status         JoinRequestStatus `json:"status" db:"status"`
	MentorResponse string            `json:"mentorResponse" db:"mentor_response"`
	ReviewedBy     *int64            `json:"reviewedBy,omitempty" db:"reviewed_by"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at"`

	// Related entities
	Intern  *User    `json:"intern,omitempty"`
	College *College `json:"college,omitempty"`
	Cohort  *Cohort  `json:"cohort,omitempty"`
}
