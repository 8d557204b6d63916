package dto

// DashboardResponse is the role-specific dashboard read model. Exactly one
// of the role sections is set, matching the caller's role.
type DashboardResponse struct {
	Role   string           `json:"role"`
	Mentor *MentorDashboard `json:"mentor,omitempty"`
	Intern *InternDashboard `json:"intern,omitempty"`
	Admin  *AdminStats      `json:"admin,omitempty"`
}

// MentorDashboard shows the mentor's colleges and workload
type MentorDashboard struct {
	Colleges            []CollegeResponse `json:"colleges"`
	PendingRequestCount int64             `json:"pendingRequestCount"`
}

// InternDashboard shows the intern's applications and placement
type InternDashboard struct {
	Requests        []JoinRequestResponse `json:"requests"`
	AssignedCollege *CollegeResponse      `json:"assignedCollege,omitempty"`
}

// AdminStats aggregates platform counters
type AdminStats struct {
	TotalMentors     int64 `json:"totalMentors"`
	TotalInterns     int64 `json:"totalInterns"`
	TotalColleges    int64 `json:"totalColleges"`
	PendingRequests  int64 `json:"pendingRequests"`
	ApprovedRequests int64 `json:"approvedRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
}
