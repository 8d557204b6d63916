package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/middleware"
)

// ActivityController handles GitLab connection management and the synced
// activity read model
type ActivityController struct {
	activityService *services.ActivityService
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService *services.ActivityService) *ActivityController {
	return &ActivityController{
		activityService: activityService,
	}
}

// ConnectGitLab links the caller's GitLab account for activity syncing
// @Summary Connect GitLab account
// @Description Validates the personal access token against the event feed and stores the link; reconnecting replaces the token
// @Tags activity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConnectGitLabRequest true "Personal access token"
// @Success 200 {object} dto.APIResponse{data=dto.GitLabConnectionResponse} "Connection stored"
// @Failure 400 {object} dto.ErrorResponse "Missing or rejected token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /activity/connect [post]
func (c *ActivityController) ConnectGitLab(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.ConnectGitLabRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	conn, err := c.activityService.Connect(ctx.Request.Context(), userID, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGitLabConnectionResponse(conn)))
}

// GetConnection reports whether and when the caller connected GitLab
// @Summary Get GitLab connection
// @Description Retrieves the caller's connection state; the token is never echoed back
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GitLabConnectionResponse} "Connection state"
// @Failure 404 {object} dto.ErrorResponse "GitLab account not connected"
// @Router /activity/connection [get]
func (c *ActivityController) GetConnection(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	conn, err := c.activityService.GetConnection(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGitLabConnectionResponse(conn)))
}

// SyncActivities pulls new events from the caller's GitLab feed
// @Summary Sync GitLab activity
// @Description Fetches the event feed since the last sync and records new activities; overlapping windows never duplicate entries
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncActivitiesResponse} "Sync outcome"
// @Failure 400 {object} dto.ErrorResponse "Token no longer accepted"
// @Failure 404 {object} dto.ErrorResponse "GitLab account not connected"
// @Router /activity/sync [post]
func (c *ActivityController) SyncActivities(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	result, err := c.activityService.Sync(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// ListActivities lists the caller's synced activities, newest first
// @Summary List own activity
// @Description Retrieves the caller's most recent synced GitLab activities
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityListResponse} "Activities"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /activity [get]
func (c *ActivityController) ListActivities(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	activities, err := c.activityService.ListActivities(ctx.Request.Context(), userID, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewActivityListResponse(activities)))
}

// TeamActivity summarizes the activity of the mentor's interns
// @Summary Team activity summary
// @Description Aggregates activity counts for the interns placed in the caller's colleges inside the reporting window
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param period query string false "Reporting window: 7d, 30d, 90d or 1y (default 30d)"
// @Success 200 {object} dto.APIResponse{data=dto.TeamActivityResponse} "Per-intern summary"
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a mentor"
// @Router /activity/team [get]
func (c *ActivityController) TeamActivity(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	summary, err := c.activityService.TeamActivity(ctx.Request.Context(), userID, ctx.Query("period"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}
