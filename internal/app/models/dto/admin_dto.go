package dto

// AssignRoleRequest represents an admin replacing a user's role assignment.
// CollegeID is required when the role scopes to a college (INTERN).
type AssignRoleRequest struct {
	Role      string `json:"role" binding:"required,oneof=ADMIN MENTOR INTERN admin mentor intern"`
	CollegeID *int64 `json:"collegeId" binding:"omitempty,gt=0"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}
