package dto

// CollegeResponse represents basic college information
type CollegeResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Website     string           `json:"website,omitempty"`
	MentorID    int64            `json:"mentorId"`
	IsActive    bool             `json:"isActive"`
	Cohorts     []CohortResponse `json:"cohorts,omitempty"`
}

// CreateCollegeRequest represents college creation data
type CreateCollegeRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"max=200"`
	Website     string `json:"website" binding:"omitempty,url"`
}

// CollegeListResponse represents a list of colleges
type CollegeListResponse struct {
	Colleges []CollegeResponse `json:"colleges"`
}
