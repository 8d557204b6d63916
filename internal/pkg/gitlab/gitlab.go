package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// Resolver errors
var (
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrProfileFetch   = errors.New("failed to fetch user profile")
)

// Profile is the identity returned by the external provider after a
// successful authentication.
type Profile struct {
	GitLabID  string
	Username  string
	Name      string
	Email     string
	AvatarURL string
}

// Resolver turns an external authentication result into a profile. The
// production implementation talks to GitLab; the fixture backend ships its
// own implementation for demo mode and tests.
type Resolver interface {
	AuthorizeURL(state string) string
	ResolveIdentity(ctx context.Context, code string) (*Profile, error)
}

// Config holds the OAuth application settings for a GitLab instance
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Client resolves identities against a GitLab instance using the OAuth2
// authorization code flow and the /api/v4/user endpoint.
type Client struct {
	oauth   *oauth2.Config
	baseURL string
	http    *http.Client
}

// NewClient creates a resolver for the configured GitLab instance
func NewClient(cfg Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read_user"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.BaseURL + "/oauth/authorize",
				TokenURL: cfg.BaseURL + "/oauth/token",
			},
		},
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the provider URL the browser is redirected to.
// The state parameter is echoed back on the callback.
func (c *Client) AuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ResolveIdentity exchanges the authorization code and fetches the
// authenticated user's profile.
func (c *Client) ResolveIdentity(ctx context.Context, code string) (*Profile, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v4/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProfileFetch, resp.StatusCode, body)
	}

	var raw struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	return &Profile{
		GitLabID:  strconv.FormatInt(raw.ID, 10),
		Username:  raw.Username,
		Name:      raw.Name,
		Email:     raw.Email,
		AvatarURL: raw.AvatarURL,
	}, nil
}
