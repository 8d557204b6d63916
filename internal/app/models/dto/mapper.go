package dto

import "github.com/emrecan/internhub/internal/app/models"

// NewUserResponse maps a user model to its response form
func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:                 user.ID,
		GitLabUsername:     user.GitLabUsername,
		Name:               user.Name,
		Email:              user.Email,
		CollegeID:          user.CollegeID,
		OnboardingComplete: user.OnboardingDone,
		IsActive:           user.IsActive,
		LastLoginAt:        user.LastLoginAt,
	}
	if user.AvatarURL != nil {
		resp.AvatarURL = *user.AvatarURL
	}
	if user.Role != nil {
		resp.Role = string(*user.Role)
	}
	return resp
}

// NewCollegeResponse maps a college model to its response form
func NewCollegeResponse(college *models.College) CollegeResponse {
	resp := CollegeResponse{
		ID:          college.ID,
		Name:        college.Name,
		Description: college.Description,
		Location:    college.Location,
		Website:     college.Website,
		MentorID:    college.MentorID,
		IsActive:    college.IsActive,
	}
	for _, cohort := range college.Cohorts {
		resp.Cohorts = append(resp.Cohorts, NewCohortResponse(cohort))
	}
	return resp
}

// NewCohortResponse maps a cohort model to its response form
func NewCohortResponse(cohort *models.Cohort) CohortResponse {
	return CohortResponse{
		ID:          cohort.ID,
		CollegeID:   cohort.CollegeID,
		Name:        cohort.Name,
		Description: cohort.Description,
		StartDate:   cohort.StartDate,
		EndDate:     cohort.EndDate,
		Capacity:    cohort.Capacity,
		Occupancy:   cohort.Occupancy,
		IsFull:      cohort.IsFull(),
	}
}

// NewJoinRequestResponse maps a join request model to its response form
func NewJoinRequestResponse(request *models.JoinRequest) JoinRequestResponse {
	resp := JoinRequestResponse{
		ID:             request.ID,
		InternID:       request.InternID,
		CollegeID:      request.CollegeID,
		CohortID:       request.CohortID,
		Message:        request.Message,
		Status:         string(request.Status),
		MentorResponse: request.MentorResponse,
		ReviewedBy:     request.ReviewedBy,
		CreatedAt:      request.CreatedAt,
		UpdatedAt:      request.UpdatedAt,
	}
	if request.Intern != nil {
		intern := NewUserResponse(request.Intern)
		resp.Intern = &intern
	}
	if request.College != nil {
		college := NewCollegeResponse(request.College)
		resp.College = &college
	}
	if request.Cohort != nil {
		cohort := NewCohortResponse(request.Cohort)
		resp.Cohort = &cohort
	}
	return resp
}

// NewJoinRequestListResponse maps a slice of join requests
func NewJoinRequestListResponse(requests []*models.JoinRequest) JoinRequestListResponse {
	resp := JoinRequestListResponse{JoinRequests: make([]JoinRequestResponse, 0, len(requests))}
	for _, request := range requests {
		resp.JoinRequests = append(resp.JoinRequests, NewJoinRequestResponse(request))
	}
	return resp
}

// NewCollegeListResponse maps a slice of colleges
func NewCollegeListResponse(colleges []*models.College) CollegeListResponse {
	resp := CollegeListResponse{Colleges: make([]CollegeResponse, 0, len(colleges))}
	for _, college := range colleges {
		resp.Colleges = append(resp.Colleges, NewCollegeResponse(college))
	}
	return resp
}

// NewGitLabConnectionResponse maps a connection model to its response form
func NewGitLabConnectionResponse(conn *models.GitLabConnection) GitLabConnectionResponse {
	return GitLabConnectionResponse{
		ConnectedAt:  conn.ConnectedAt,
		LastSyncedAt: conn.LastSyncedAt,
	}
}

// NewActivityResponse maps an activity model to its response form
func NewActivityResponse(activity *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         activity.ID,
		Type:       string(activity.Type),
		ProjectID:  activity.ProjectID,
		Title:      activity.Title,
		OccurredAt: activity.OccurredAt,
	}
}

// NewActivityListResponse maps a slice of activities
func NewActivityListResponse(activities []*models.Activity) ActivityListResponse {
	resp := ActivityListResponse{Activities: make([]ActivityResponse, 0, len(activities))}
	for _, activity := range activities {
		resp.Activities = append(resp.Activities, NewActivityResponse(activity))
	}
	return resp
}

// NewCohortListResponse maps a slice of cohorts
func NewCohortListResponse(cohorts []*models.Cohort) CohortListResponse {
	resp := CohortListResponse{Cohorts: make([]CohortResponse, 0, len(cohorts))}
	for _, cohort := range cohorts {
		resp.Cohorts = append(resp.Cohorts, NewCohortResponse(cohort))
	}
	return resp
}
