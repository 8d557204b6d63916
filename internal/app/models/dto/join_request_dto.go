package dto

import "time"

// JoinRequestResponse represents a join request with its decision state
type JoinRequestResponse struct {
	ID             int64            `json:"id"`
	InternID       int64            `json:"internId"`
	Intern         *UserResponse    `json:"intern,omitempty"`
	CollegeID      int64            `json:"collegeId"`
	College        *CollegeResponse `json:"college,omitempty"`
	CohortID       int64            `json:"cohortId"`
	Cohort         *CohortResponse  `json:"cohort,omitempty"`
	Message        string           `json:"message,omitempty"`
	Status         string           `json:"status" example:"PENDING"`
	MentorResponse string           `json:"mentorResponse,omitempty"`
	ReviewedBy     *int64           `json:"reviewedBy,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// CreateJoinRequestRequest represents an intern applying to a cohort
type CreateJoinRequestRequest struct {
	CollegeID int64  `json:"collegeId" binding:"required,gt=0"`
	CohortID  int64  `json:"cohortId" binding:"required,gt=0"`
	Message   string `json:"message" binding:"max=2000"`
}

// DecideJoinRequestRequest represents a mentor's verdict on a pending request
type DecideJoinRequestRequest struct {
	Status         string `json:"status" binding:"required,oneof=APPROVED REJECTED approved rejected"`
	MentorResponse string `json:"mentorResponse" binding:"max=2000"`
}

// JoinRequestListResponse represents a list of join requests
type JoinRequestListResponse struct {
	JoinRequests []JoinRequestResponse `json:"joinRequests"`
}
