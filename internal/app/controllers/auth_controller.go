package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/middleware"
)

// AuthController handles authentication operations
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// GitLabLogin starts the GitLab OAuth flow
// @Summary Begin GitLab login
// @Description Returns the GitLab authorization URL and the state parameter the client must round-trip
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LoginURLResponse} "Authorization URL"
// @Router /auth/gitlab/login [get]
func (c *AuthController) GitLabLogin(ctx *gin.Context) {
	resp := c.authService.BeginGitLabLogin()
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GitLabCallback completes the GitLab OAuth flow
// @Summary Complete GitLab login
// @Description Exchanges the authorization code for tokens; creates the user on first login
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State parameter from the login step"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authentication successful"
// @Failure 400 {object} dto.ErrorResponse "Missing code or state"
// @Failure 401 {object} dto.ErrorResponse "Identity could not be resolved"
// @Failure 403 {object} dto.ErrorResponse "Account is disabled"
// @Router /auth/gitlab/callback [get]
func (c *AuthController) GitLabCallback(ctx *gin.Context) {
	var req dto.CallbackRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing code or state parameter").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, tokens, err := c.authService.CompleteGitLabLogin(ctx.Request.Context(), req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: *tokens,
		User:  dto.NewUserResponse(user),
	}))
}

// Login authenticates the bootstrap admin with email and password
// @Summary Admin login
// @Description Password login for the bootstrapped admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authentication successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.LoginAdmin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: *tokens,
		User:  dto.NewUserResponse(user),
	}))
}

// Refresh re-issues a token pair from a refresh token
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "New token pair"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: *tokens,
		User:  dto.NewUserResponse(user),
	}))
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.authService.GetCurrentUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewUserResponse(user)))
}
