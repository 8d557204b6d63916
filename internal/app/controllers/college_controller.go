package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/middleware"
)

// CollegeController handles college and cohort catalog operations
type CollegeController struct {
	catalogService *services.CatalogService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(catalogService *services.CatalogService) *CollegeController {
	return &CollegeController{
		catalogService: catalogService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListColleges lists colleges for the caller
// @Summary List colleges
// @Description Mentors see the colleges they own; everyone else sees the active catalog
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CollegeListResponse} "Colleges"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /colleges [get]
func (c *CollegeController) ListColleges(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var (
		colleges []*models.College
		err      error
	)
	if role, _ := ctx.Get(middleware.ContextRole); role == string(models.RoleMentor) {
		colleges, err = c.catalogService.ListCollegesForMentor(ctx.Request.Context(), userID)
	} else {
		colleges, err = c.catalogService.ListActiveColleges(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCollegeListResponse(colleges)))
}

// CreateCollege creates an additional college for a mentor
// @Summary Create college
// @Description Creates an additional college owned by the calling mentor
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCollegeRequest true "College information"
// @Success 201 {object} dto.APIResponse{data=dto.CollegeResponse} "Created college"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a mentor"
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.CreateCollegeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	college, err := c.catalogService.CreateCollege(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewCollegeResponse(college)))
}

// GetCollege retrieves a college by ID
// @Summary Get college
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.CollegeResponse} "College"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{id} [get]
func (c *CollegeController) GetCollege(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	college, err := c.catalogService.GetCollege(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCollegeResponse(college)))
}

// ListCohorts lists the cohorts of a college
// @Summary List cohorts
// @Description Lists the cohorts of a college with capacity and occupancy
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.CohortListResponse} "Cohorts"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{id}/cohorts [get]
func (c *CollegeController) ListCohorts(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	cohorts, err := c.catalogService.ListCohorts(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCohortListResponse(cohorts)))
}

// CreateCohort adds a cohort to a college
// @Summary Create cohort
// @Description Adds a cohort to a college the calling mentor owns
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID"
// @Param request body dto.CreateCohortRequest true "Cohort information"
// @Success 201 {object} dto.APIResponse{data=dto.CohortResponse} "Created cohort"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the college"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{id}/cohorts [post]
func (c *CollegeController) CreateCohort(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCohortRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	cohort, err := c.catalogService.CreateCohort(ctx.Request.Context(), userID, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewCohortResponse(cohort)))
}
