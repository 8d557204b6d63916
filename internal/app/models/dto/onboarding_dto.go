package dto

// OnboardingStateResponse reports where an identity is in the onboarding
// sequence. Role and collegeId are present once a role has been committed.
type OnboardingStateResponse struct {
	State     string `json:"state" example:"ROLE_SELECTION"`
	Role      string `json:"role,omitempty" example:"MENTOR"`
	CollegeID *int64 `json:"collegeId,omitempty"`
}

// SelectRoleRequest represents the role chosen on the first onboarding step
type SelectRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=MENTOR INTERN mentor intern"`
}

// MentorSetupRequest carries the college and first cohort a mentor creates
// to finish onboarding
type MentorSetupRequest struct {
	College CreateCollegeRequest `json:"college" binding:"required"`
	Cohort  CreateCohortRequest  `json:"cohort" binding:"required"`
}

// InternSetupRequest carries the intern's chosen college, cohort and an
// optional application message
type InternSetupRequest struct {
	CollegeID int64  `json:"collegeId" binding:"required,gt=0"`
	CohortID  int64  `json:"cohortId" binding:"required,gt=0"`
	Message   string `json:"message" binding:"max=2000"`
}
