package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/middleware"
)

// DashboardController serves the role-specific dashboard read model
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the dashboard for the caller's role
// @Summary Get dashboard
// @Description Mentors get their colleges and pending workload, interns their applications and placement, admins the platform stats
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	dashboard, err := c.dashboardService.BuildDashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dashboard))
}
