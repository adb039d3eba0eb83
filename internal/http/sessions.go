package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"caregiver-support/pkg"
)

// sessionCookie names the cookie that ties a browser to its form state.
const sessionCookie = "caregiver_session"

// pageState is what one browser sees on the form: the last description it
// submitted, the plan generated for it and the notes being edited.  Nothing
// here outlives the session.
type pageState struct {
	Text  string
	Plan  *pkg.Plan
	Notes pkg.Notes
}

// SessionStore keeps per-browser page state in memory.  Entries expire after
// the configured TTL of inactivity; Clear removes them immediately.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore constructs a SessionStore whose entries live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache.New(ttl, ttl)}
}

// Get returns the state saved for id.
func (s *SessionStore) Get(id string) (pageState, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return pageState{}, false
	}
	return v.(pageState), true
}

// Put saves state for id and refreshes its expiry.
func (s *SessionStore) Put(id string, state pageState) {
	s.cache.SetDefault(id, state)
}

// Delete drops any state saved for id.
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports how many sessions are held, expired ones included until the
// next janitor run.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}

// sessionID returns the caller's session ID, issuing a new cookie when the
// request has none or carries a malformed one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
