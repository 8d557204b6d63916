package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/app/repositories"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/auth"
	"github.com/emrecan/internhub/internal/pkg/gitlab"
)

// AuthService handles authentication operations
type AuthService struct {
	users      repositories.UserStore
	resolver   gitlab.Resolver
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repositories.UserStore,
	resolver gitlab.Resolver,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		resolver:   resolver,
		jwtService: jwtService,
		logger:     logger,
	}
}

// BeginGitLabLogin builds the provider authorization URL with a fresh state
// parameter. The client round-trips the state through the provider and the
// callback rejects mismatches.
func (s *AuthService) BeginGitLabLogin() *dto.LoginURLResponse {
	state := uuid.New().String()
	return &dto.LoginURLResponse{
		AuthorizeURL: s.resolver.AuthorizeURL(state),
		State:        state,
	}
}

// CompleteGitLabLogin exchanges the callback code for an identity. The first
// successful resolution creates the user with no role and onboarding still
// open; later logins only refresh the profile fields.
func (s *AuthService) CompleteGitLabLogin(ctx context.Context, code string) (*models.User, *dto.TokenResponse, error) {
	profile, err := s.resolver.ResolveIdentity(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("GitLab identity resolution failed")
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrIdentityUnknown, err)
	}

	user, err := s.users.GetByGitLabID(ctx, profile.GitLabID)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, nil, apperrors.ErrAccountDisabled
		}
		if err := s.users.RefreshProfile(ctx, user.ID, profile.Name, profile.Email, profile.AvatarURL); err != nil {
			return nil, nil, fmt.Errorf("failed to refresh profile: %w", err)
		}
		user, err = s.users.GetByID(ctx, user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reload user: %w", err)
		}

	case errors.Is(err, apperrors.ErrUserNotFound):
		newUser := &models.User{
			GitLabID:       profile.GitLabID,
			GitLabUsername: profile.Username,
			Name:           profile.Name,
			Email:          profile.Email,
			IsActive:       true,
		}
		if profile.AvatarURL != "" {
			newUser.AvatarURL = &profile.AvatarURL
		}
		id, createErr := s.users.Create(ctx, newUser)
		if createErr != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", createErr)
		}
		s.logger.Info().Int64("userId", id).Str("gitlabId", profile.GitLabID).Msg("New identity registered")
		user, err = s.users.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load new user: %w", err)
		}

	default:
		return nil, nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// LoginAdmin authenticates the bootstrapped admin account by email and
// password. Regular users have no password and cannot use this path.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.User, *dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password == nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(*user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh re-issues a token pair from a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *dto.TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, apperrors.ErrTokenExpired
		}
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: user from token not found", apperrors.ErrTokenInvalid)
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// GetCurrentUser loads the authenticated user's record
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(user *models.User) (*dto.TokenResponse, error) {
	access, refresh, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken:           access,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refresh,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
