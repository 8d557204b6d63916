package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/emrecan/internhub/internal/pkg/gitlab"
)

// ActivityFeed is a canned gitlab.ActivityFetcher. Events are registered
// per token; FetchEvents hands back the ones inside the requested window.
// FailFetch, when set, makes the next fetch fail; tests use it to drive the
// token rejection path.
type ActivityFeed struct {
	mu     sync.Mutex
	events map[string][]gitlab.Event

	FailFetch error
}

// NewActivityFeed creates a feed with no registered events
func NewActivityFeed() *ActivityFeed {
	return &ActivityFeed{events: map[string][]gitlab.Event{}}
}

// Add registers events readable with the given token
func (f *ActivityFeed) Add(token string, events ...gitlab.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[token] = append(f.events[token], events...)
}

// FetchEvents returns the registered events for the token that occurred at
// or after since. Unknown tokens yield an empty feed, mirroring a fresh
// GitLab account.
func (f *ActivityFeed) FetchEvents(_ context.Context, accessToken string, since time.Time) ([]gitlab.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailFetch != nil {
		err := f.FailFetch
		f.FailFetch = nil
		return nil, err
	}

	events := []gitlab.Event{}
	for _, event := range f.events[accessToken] {
		if !event.CreatedAt.Before(since) {
			events = append(events, event)
		}
	}
	return events, nil
}
