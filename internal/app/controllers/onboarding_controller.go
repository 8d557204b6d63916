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

// OnboardingController handles the onboarding state machine endpoints
type OnboardingController struct {
	onboardingService *services.OnboardingService
}

// NewOnboardingController creates a new OnboardingController
func NewOnboardingController(onboardingService *services.OnboardingService) *OnboardingController {
	return &OnboardingController{
		onboardingService: onboardingService,
	}
}

// GetState reports the caller's onboarding state
// @Summary Get onboarding state
// @Description Reports where the caller is in the onboarding sequence; completed identities include their role
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingStateResponse} "Current state"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /onboarding [get]
func (c *OnboardingController) GetState(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	state, err := c.onboardingService.GetState(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(state))
}

// SelectRole chooses the mentor or intern branch
// @Summary Select onboarding role
// @Description Moves the identity from role selection into the chosen setup branch; admin cannot be chosen
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectRoleRequest true "Chosen role"
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingStateResponse} "New state"
// @Failure 400 {object} dto.ErrorResponse "Role cannot be self-selected"
// @Failure 409 {object} dto.ErrorResponse "Onboarding already completed or role already selected"
// @Router /onboarding/role [post]
func (c *OnboardingController) SelectRole(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.SelectRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	role := models.RoleType(strings.ToUpper(req.Role))
	state, err := c.onboardingService.SelectRole(ctx.Request.Context(), userID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(state))
}

// SubmitMentorSetup finishes the mentor branch
// @Summary Submit mentor setup
// @Description Creates the mentor's college and first cohort and commits the mentor role
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MentorSetupRequest true "College and first cohort"
// @Success 201 {object} dto.APIResponse{data=dto.CollegeResponse} "Created college with cohort"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Wrong onboarding state"
// @Router /onboarding/mentor [post]
func (c *OnboardingController) SubmitMentorSetup(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.MentorSetupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	college, cohort, err := c.onboardingService.SubmitMentorSetup(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	college.Cohorts = []*models.Cohort{cohort}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewCollegeResponse(college)))
}

// SubmitInternSetup finishes the intern branch
// @Summary Submit intern setup
// @Description Records the intern's cohort application as a pending join request; the role comes with approval
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InternSetupRequest true "Chosen college and cohort"
// @Success 201 {object} dto.APIResponse{data=dto.JoinRequestResponse} "Pending join request"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or cohort mismatch"
// @Failure 404 {object} dto.ErrorResponse "College or cohort not found"
// @Failure 409 {object} dto.ErrorResponse "Wrong onboarding state or cohort full"
// @Router /onboarding/intern [post]
func (c *OnboardingController) SubmitInternSetup(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.InternSetupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.onboardingService.SubmitInternSetup(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewJoinRequestResponse(request)))
}

// GoBack returns to role selection
// @Summary Go back to role selection
// @Description Discards the chosen branch; only possible before onboarding completes
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingStateResponse} "New state"
// @Failure 409 {object} dto.ErrorResponse "Onboarding already completed"
// @Router /onboarding/back [post]
func (c *OnboardingController) GoBack(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	state, err := c.onboardingService.GoBack(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(state))
}

func unauthorized(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
