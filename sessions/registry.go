package sessions

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-cloud-mock/clock"
	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
)

// Registry owns session lifecycle: it mints sessions from credentials,
// impersonation requests, or bare tokens, and resolves them by token or
// tenant. All lookups that involve expiry consult the injected clock, never
// the wall clock directly.
type Registry struct {
	clk      clock.Clock
	lock     sync.RWMutex
	byToken  map[string]*Session
	byTenant map[string]*Session
}

// RegistryOption modifies a Registry at construction time.
type RegistryOption func(*Registry)

// WithClock sets the registry's time source (primarily for testing).
func WithClock(clk clock.Clock) RegistryOption {
	return func(r *Registry) {
		r.clk = clk
	}
}

// NewRegistry creates an empty session registry backed by the system clock
// unless overridden via WithClock.
func NewRegistry(options ...RegistryOption) *Registry {
	registry := &Registry{
		clk:      clock.System(),
		byToken:  make(map[string]*Session),
		byTenant: make(map[string]*Session),
	}
	for _, opt := range options {
		opt(registry)
	}
	return registry
}

// CreateFromPassword mints a new session for the given credentials. The mock
// accepts any password, and no deduplication happens against earlier sessions
// for the same credentials: every call mints a fresh token. When tenantName
// is empty a tenant ID is generated.
func (r *Registry) CreateFromPassword(username, password, tenantName string) *Session {
	_ = password // any password authenticates against the mock
	tenantID := tenantName
	if tenantID == "" {
		tenantID = randomTenantID()
	}

	session := &Session{
		Token:    uuid.New().String(),
		TenantID: tenantID,
		UserID:   uuid.New().String(),
		Username: username,
	}
	r.add(session)
	return session
}

// CreateImpersonation mints a session on behalf of the named user with a
// finite lifetime of ttlSeconds from the registry clock's current time.
func (r *Registry) CreateImpersonation(username string, ttlSeconds int64) *Session {
	session := &Session{
		Token:    uuid.New().String(),
		TenantID: randomTenantID(),
		UserID:   uuid.New().String(),
		Username: username,
		Expires:  r.clk.Now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	r.add(session)
	return session
}

// SessionForToken resolves a token to its session. Unknown tokens and tokens
// whose session has expired both fail with ErrSessionNotFound; an expired
// session is dropped from the registry on the way out.
func (r *Registry) SessionForToken(token string) (*Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	session, ok := r.byToken[token]
	if !ok {
		return nil, errs.Wrapf(errs.ErrSessionNotFound, "token %q", token)
	}
	if session.Expired(r.clk.Now()) {
		r.remove(session)
		return nil, errs.Wrapf(errs.ErrSessionNotFound, "token %q expired", token)
	}
	return session, nil
}

// SessionForTokenOrCreate resolves a token to its session, minting and
// registering a session bound to that exact token when none exists. The
// identity API's endpoint listing accepts tokens it has never issued, so the
// boundary layer uses this rather than the strict lookup.
func (r *Registry) SessionForTokenOrCreate(token string) *Session {
	if session, err := r.SessionForToken(token); err == nil {
		return session
	}

	session := &Session{
		Token:    token,
		TenantID: randomTenantID(),
		UserID:   uuid.New().String(),
		Username: "user_" + randomTenantID(),
	}
	r.add(session)
	return session
}

// SessionForTenantID resolves a tenant to one of its sessions. This lookup is
// deliberately side-effecting: when the tenant has no session one is
// synthesized on the spot and registered, so a tenant-keyed lookup always
// yields a session. Callers relying on transparent creation depend on this.
func (r *Registry) SessionForTenantID(tenantID string) *Session {
	r.lock.RLock()
	session, ok := r.byTenant[tenantID]
	r.lock.RUnlock()
	if ok {
		return session
	}

	session = &Session{
		Token:    uuid.New().String(),
		TenantID: tenantID,
		UserID:   uuid.New().String(),
		Username: "user_" + tenantID,
	}
	r.add(session)
	return session
}

func (r *Registry) add(session *Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.byToken[session.Token] = session
	r.byTenant[session.TenantID] = session
}

// remove expects the write lock to be held.
func (r *Registry) remove(session *Session) {
	delete(r.byToken, session.Token)
	if current, ok := r.byTenant[session.TenantID]; ok && current == session {
		delete(r.byTenant, session.TenantID)
	}
}

// randomTenantID generates a numeric tenant identifier in the style of the
// mocked provider's account numbers.
func randomTenantID() string {
	return strconv.FormatUint(rand.Uint64()%1_000_000_000, 10)
}
