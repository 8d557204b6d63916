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

// JoinRequestController handles join request listing and decisions
type JoinRequestController struct {
	approvalService *services.ApprovalService
}

// NewJoinRequestController creates a new JoinRequestController
func NewJoinRequestController(approvalService *services.ApprovalService) *JoinRequestController {
	return &JoinRequestController{
		approvalService: approvalService,
	}
}

// ListJoinRequests lists join requests for the caller
// @Summary List join requests
// @Description Mentors see pending requests against their colleges, oldest first; interns see their own, newest first
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.JoinRequestListResponse} "Join requests"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /join-requests [get]
func (c *JoinRequestController) ListJoinRequests(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var (
		requests []*models.JoinRequest
		err      error
	)
	if role, _ := ctx.Get(middleware.ContextRole); role == string(models.RoleMentor) {
		requests, err = c.approvalService.ListPendingRequests(ctx.Request.Context(), userID)
	} else {
		requests, err = c.approvalService.ListRequestsForIntern(ctx.Request.Context(), userID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewJoinRequestListResponse(requests)))
}

// CreateJoinRequest records a new application from an unplaced identity
// @Summary Apply to a cohort
// @Description Creates a pending join request; used to re-apply after a rejection or apply to another cohort
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJoinRequestRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=dto.JoinRequestResponse} "Created request"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or mismatched cohort"
// @Failure 404 {object} dto.ErrorResponse "College or cohort not found"
// @Failure 409 {object} dto.ErrorResponse "Caller already placed or cohort full"
// @Router /join-requests [post]
func (c *JoinRequestController) CreateJoinRequest(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.CreateJoinRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.approvalService.Apply(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewJoinRequestResponse(request)))
}

// GetJoinRequest retrieves a single join request
// @Summary Get join request
// @Description Retrieves one join request; only its intern or the owning mentor may read it
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Join request ID"
// @Success 200 {object} dto.APIResponse{data=dto.JoinRequestResponse} "Join request"
// @Failure 403 {object} dto.ErrorResponse "Request does not belong to the caller"
// @Failure 404 {object} dto.ErrorResponse "Join request not found"
// @Router /join-requests/{id} [get]
func (c *JoinRequestController) GetJoinRequest(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.approvalService.GetRequest(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewJoinRequestResponse(request)))
}

// DecideJoinRequest applies a mentor's verdict on a pending request
// @Summary Decide join request
// @Description Approves or rejects a pending request; approval seats the intern and assigns the intern role
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Join request ID"
// @Param request body dto.DecideJoinRequestRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.JoinRequestResponse} "Decided request"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the college"
// @Failure 404 {object} dto.ErrorResponse "Join request not found"
// @Failure 409 {object} dto.ErrorResponse "Already decided or cohort full"
// @Router /join-requests/{id} [patch]
func (c *JoinRequestController) DecideJoinRequest(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecideJoinRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome := models.DecisionOutcome(strings.ToUpper(req.Status))
	request, err := c.approvalService.Decide(ctx.Request.Context(), id, userID, outcome, req.MentorResponse)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewJoinRequestResponse(request)))
}
