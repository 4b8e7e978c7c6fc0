package sessions_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-cloud-mock/clock"
	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
	"github.com/jrsteele09/go-cloud-mock/sessions"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "demoauthor"
	testPassword = "theUsersPassword"
)

var testStart = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

func TestCreateFromPasswordMintsResolvableSession(t *testing.T) {
	registry := sessions.NewRegistry()

	session := registry.CreateFromPassword(testUsername, testPassword, "turtlepower")
	require.NotEmpty(t, session.Token)
	require.Equal(t, "turtlepower", session.TenantID)
	require.Equal(t, testUsername, session.Username)
	require.True(t, session.Expires.IsZero())

	resolved, err := registry.SessionForToken(session.Token)
	require.NoError(t, err)
	require.Same(t, session, resolved)
}

func TestCreateFromPasswordGeneratesTenantID(t *testing.T) {
	registry := sessions.NewRegistry()

	session := registry.CreateFromPassword(testUsername, testPassword, "")
	require.NotEmpty(t, session.TenantID)
}

func TestEveryLoginMintsANewSession(t *testing.T) {
	registry := sessions.NewRegistry()

	first := registry.CreateFromPassword(testUsername, testPassword, "")
	second := registry.CreateFromPassword(testUsername, testPassword, "")

	require.NotEqual(t, first.Token, second.Token)

	// Both tokens stay resolvable; no deduplication happens for repeated
	// credentials.
	_, err := registry.SessionForToken(first.Token)
	require.NoError(t, err)
	_, err = registry.SessionForToken(second.Token)
	require.NoError(t, err)
}

func TestSessionForTokenUnknown(t *testing.T) {
	registry := sessions.NewRegistry()

	_, err := registry.SessionForToken("no-such-token")
	require.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestSessionForTenantIDCreatesOnMiss(t *testing.T) {
	registry := sessions.NewRegistry()

	session := registry.SessionForTenantID("brand-new-tenant")
	require.Equal(t, "brand-new-tenant", session.TenantID)
	require.NotEmpty(t, session.Token)

	// The synthesized session is registered: the same lookup yields it again
	// and its token resolves.
	require.Same(t, session, registry.SessionForTenantID("brand-new-tenant"))
	resolved, err := registry.SessionForToken(session.Token)
	require.NoError(t, err)
	require.Same(t, session, resolved)
}

func TestSessionForTenantIDFindsExistingSession(t *testing.T) {
	registry := sessions.NewRegistry()

	created := registry.CreateFromPassword(testUsername, testPassword, "turtlepower")
	require.Same(t, created, registry.SessionForTenantID("turtlepower"))
}

func TestSessionForTokenOrCreateBindsPresentedToken(t *testing.T) {
	registry := sessions.NewRegistry()

	session := registry.SessionForTokenOrCreate("1234567890")
	require.Equal(t, "1234567890", session.Token)

	resolved, err := registry.SessionForToken("1234567890")
	require.NoError(t, err)
	require.Same(t, session, resolved)

	// An already-known token is returned as-is rather than re-minted.
	require.Same(t, session, registry.SessionForTokenOrCreate("1234567890"))
}

func TestImpersonationSessionCarriesExpiry(t *testing.T) {
	clk := clock.NewFake(testStart)
	registry := sessions.NewRegistry(sessions.WithClock(clk))

	session := registry.CreateImpersonation("impersonated_user", 60)
	require.Equal(t, "impersonated_user", session.Username)
	require.Equal(t, testStart.Add(60*time.Second), session.Expires)

	resolved, err := registry.SessionForToken(session.Token)
	require.NoError(t, err)
	require.Same(t, session, resolved)
}

func TestImpersonationSessionExpires(t *testing.T) {
	clk := clock.NewFake(testStart)
	registry := sessions.NewRegistry(sessions.WithClock(clk))

	session := registry.CreateImpersonation("impersonated_user", 60)

	clk.Advance(59 * time.Second)
	_, err := registry.SessionForToken(session.Token)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = registry.SessionForToken(session.Token)
	require.ErrorIs(t, err, errs.ErrSessionNotFound)
}
