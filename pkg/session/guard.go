package session

import (
	"encoding/json"
	"sync"

	"github.com/quizdesk/quizdesk-go/pkg/models"
)

// GuardState is the access-check outcome.
type GuardState int

const (
	// Checking is the initial state, before Check has run.
	Checking GuardState = iota
	// Authenticated means the caller may render the dashboard.
	Authenticated
	// Redirecting means the caller must navigate to RedirectTo.
	Redirecting
)

func (s GuardState) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Redirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Redirect destinations produced by the guard.
const (
	LoginPath          = "/auth/login"
	LoginAdminOnlyPath = "/auth/login?error=admin_only"
)

// Guard gates dashboard access behind the presence of a persisted session.
//
// The check runs at most once per Guard: a latch keeps repeated Check calls
// from re-running the storage reads and producing redundant redirects.
// State transitions are Checking -> Authenticated or Checking -> Redirecting
// and are terminal for the guard instance.
type Guard struct {
	session      *Session
	requireAdmin bool

	mu         sync.Mutex
	checked    bool
	state      GuardState
	redirectTo string
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// RequireAdmin makes the guard reject identities without staff or superuser
// flags, clearing all persisted credentials and redirecting with an
// admin-only error indicator.
func RequireAdmin() GuardOption {
	return func(g *Guard) { g.requireAdmin = true }
}

// NewGuard creates a Guard over the session.
func NewGuard(s *Session, opts ...GuardOption) *Guard {
	g := &Guard{session: s, state: Checking}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check runs the access check once and returns the resulting state.
// Subsequent calls return the cached result.
//
// No token -> Redirecting to the login page. Token present -> the persisted
// identity record is hydrated into the session; a malformed record is
// ignored, not fatal. With RequireAdmin, a hydrated identity lacking
// elevated flags clears all credentials and redirects with an error
// indicator.
func (g *Guard) Check() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.checked {
		return g.state
	}
	g.checked = true

	tok, _ := g.session.storage.Get(KeyAccessToken)
	if tok == "" {
		g.state = Redirecting
		g.redirectTo = LoginPath
		return g.state
	}

	if raw, ok := g.session.storage.Get(KeyUser); ok && raw != "" {
		var user models.Account
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			if g.requireAdmin && !user.IsAdmin() {
				g.session.ClearCredentials()
				g.state = Redirecting
				g.redirectTo = LoginAdminOnlyPath
				return g.state
			}
			g.session.setIdentity(&user)
		}
		// decode errors fall through: hydration is best-effort
	}

	g.state = Authenticated
	return g.state
}

// State returns the current guard state without triggering a check.
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RedirectTo returns the destination for the Redirecting state, or "".
func (g *Guard) RedirectTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.redirectTo
}
