package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/middleware"
)

// AdminController handles platform administration endpoints
type AdminController struct {
	adminService     *services.AdminService
	dashboardService *services.DashboardService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService, dashboardService *services.DashboardService) *AdminController {
	return &AdminController{
		adminService:     adminService,
		dashboardService: dashboardService,
	}
}

// GetStats returns the platform counters
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminStats} "Statistics"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.dashboardService.BuildStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// ListUsers returns all active users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.adminService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(user))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// AssignRole replaces a user's role assignment
// @Summary Assign role
// @Description Replaces the user's role assignment as a whole; the intern role requires a college
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.AssignRoleRequest true "Role assignment"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "User or college not found"
// @Router /admin/users/{id} [put]
func (c *AdminController) AssignRole(ctx *gin.Context) {
	adminID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	role := models.RoleType(strings.ToUpper(req.Role))
	user, err := c.adminService.AssignRole(ctx.Request.Context(), adminID, targetID, role, req.CollegeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewUserResponse(user)))
}

// DeactivateUser disables a user account
// @Summary Deactivate user
// @Description Disables the account; users are deactivated, never deleted. Admins cannot deactivate themselves.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deactivated"
// @Failure 403 {object} dto.ErrorResponse "Cannot deactivate own account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeactivateUser(ctx *gin.Context) {
	adminID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeactivateUser(ctx.Request.Context(), adminID, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "User deactivated"}))
}

// ListColleges returns all active colleges with cohorts
// @Summary List colleges
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CollegeListResponse} "Colleges"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/colleges [get]
func (c *AdminController) ListColleges(ctx *gin.Context) {
	colleges, err := c.adminService.ListColleges(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCollegeListResponse(colleges)))
}
