package fixture

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/emrecan/internhub/internal/pkg/gitlab"
)

// Resolver is a canned gitlab.Resolver. Instead of talking to an external
// provider it hands out profiles keyed by the authorization code, so demo
// deployments and tests can walk the full login flow offline.
type Resolver struct {
	mu       sync.Mutex
	profiles map[string]gitlab.Profile
	baseURL  string
}

// NewResolver creates a resolver with no registered profiles. baseURL is
// where AuthorizeURL points; the demo frontend handles the redirect itself.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		profiles: map[string]gitlab.Profile{},
		baseURL:  baseURL,
	}
}

// Register makes the given profile resolvable with the given code
func (r *Resolver) Register(code string, profile gitlab.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[code] = profile
}

// AuthorizeURL returns a local URL carrying only the state parameter
func (r *Resolver) AuthorizeURL(state string) string {
	return r.baseURL + "/demo/authorize?state=" + url.QueryEscape(state)
}

// ResolveIdentity looks the code up in the registered profiles
func (r *Resolver) ResolveIdentity(_ context.Context, code string) (*gitlab.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown code", gitlab.ErrExchangeFailed)
	}
	p := profile
	return &p, nil
}
