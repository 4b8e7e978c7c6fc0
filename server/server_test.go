package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-cloud-mock/catalog"
	"github.com/jrsteele09/go-cloud-mock/clock"
	"github.com/jrsteele09/go-cloud-mock/core"
	"github.com/jrsteele09/go-cloud-mock/internal/config"
	"github.com/jrsteele09/go-cloud-mock/server"
	"github.com/jrsteele09/go-cloud-mock/services"
	"github.com/jrsteele09/go-cloud-mock/services/pluginfakes"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "demoauthor"
	testPassword = "theUsersPassword"
)

var testStart = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

// testFixture holds a server wired to a core with a fake clock.
type testFixture struct {
	server *server.Server
	core   *core.Core
	clk    *clock.Fake
}

func setupTestFixture(t *testing.T, plugins ...services.Plugin) *testFixture {
	t.Helper()

	clk := clock.NewFake(testStart)
	c := core.New(clk, plugins, []string{"ORD"})

	srv, err := server.New(config.New(), c)
	require.NoError(t, err)

	return &testFixture{server: srv, core: c, clk: clk}
}

func (f *testFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	recorder := httptest.NewRecorder()
	f.server.ServeHTTP(recorder, req)
	return recorder
}

func (f *testFixture) authenticate(t *testing.T, body string) catalog.TokenResponse {
	t.Helper()

	recorder := f.do(t, http.MethodPost, "http://mybase/identity/v2.0/tokens", body)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response catalog.TokenResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

const passwordOnlyAuth = `{"auth": {"passwordCredentials": {"username": "demoauthor", "password": "theUsersPassword"}}}`

func TestTokensResponseHasAuthToken(t *testing.T) {
	fixture := setupTestFixture(t)

	response := fixture.authenticate(t, passwordOnlyAuth)

	token := response.Access.Token.ID
	require.NotEmpty(t, token)

	// The server-chosen tenant ID is used for both tenant id and name.
	require.Equal(t, response.Access.Token.Tenant.ID, response.Access.Token.Tenant.Name)

	session, err := fixture.core.Sessions.SessionForToken(token)
	require.NoError(t, err)
	require.Equal(t, token, session.Token)
	require.Equal(t, response.Access.Token.Tenant.ID, session.TenantID)
	require.Equal(t, testUsername, session.Username)
}

func TestTokensAcceptsTenantName(t *testing.T) {
	fixture := setupTestFixture(t)

	response := fixture.authenticate(t, `{
		"auth": {
			"passwordCredentials": {"username": "demoauthor", "password": "theUsersPassword"},
			"tenantName": "turtlepower"
		}
	}`)

	require.Equal(t, "turtlepower", response.Access.Token.Tenant.ID)

	session, err := fixture.core.Sessions.SessionForToken(response.Access.Token.ID)
	require.NoError(t, err)
	require.Equal(t, "turtlepower", session.TenantID)
}

func TestTokensServiceCatalogHasBaseURI(t *testing.T) {
	fixture := setupTestFixture(t, pluginfakes.NewFakePlugin("hello"))

	response := fixture.authenticate(t, passwordOnlyAuth)

	serviceCatalog := response.Access.ServiceCatalog
	require.Len(t, serviceCatalog, 1)
	require.Len(t, serviceCatalog[0].Endpoints, 1)
	require.Truef(t, strings.HasPrefix(serviceCatalog[0].Endpoints[0].PublicURL, "http://mybase/"),
		"%s does not start with http://mybase/", serviceCatalog[0].Endpoints[0].PublicURL)
}

func TestTokensMalformedPayload(t *testing.T) {
	fixture := setupTestFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"auth":`},
		{name: "missing credentials", body: `{"auth": {}}`},
		{name: "missing username", body: `{"auth": {"passwordCredentials": {"password": "pw"}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := fixture.do(t, http.MethodPost, "/identity/v2.0/tokens", tc.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			require.Contains(t, recorder.Body.String(), "badRequest")
		})
	}
}

func TestEndpointsCreatesSessionForToken(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/identity/v2.0/tokens/1234567890/endpoints", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	session, err := fixture.core.Sessions.SessionForToken("1234567890")
	require.NoError(t, err)
	require.Equal(t, "1234567890", session.Token)
}

func TestEndpointsResponseHasBaseURI(t *testing.T) {
	fixture := setupTestFixture(t, pluginfakes.NewFakePlugin("hello"))

	recorder := fixture.do(t, http.MethodGet, "http://mybase/identity/v2.0/tokens/1234567890/endpoints", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response catalog.EndpointsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	require.Len(t, response.Endpoints, 1)
	endpoint := response.Endpoints[0]
	require.Equal(t, 1, endpoint.ID)
	require.Truef(t, strings.HasPrefix(endpoint.PublicURL, "http://mybase/"),
		"%s does not start with http://mybase/", endpoint.PublicURL)
}

func TestImpersonationTokenHasExpiry(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/identity/v2.0/RAX-AUTH/impersonation-tokens", `{
		"RAX-AUTH:impersonation": {
			"user": {"username": "impersonated_user"},
			"expire-in-seconds": 60
		}
	}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Access struct {
			Token struct {
				ID      string `json:"id"`
				Expires string `json:"expires"`
			} `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotEmpty(t, response.Access.Token.ID)
	require.Equal(t, "2026-01-01T12:01:00.999-05:00", response.Access.Token.Expires)

	// The minted session obeys the fake clock: one minute later the token no
	// longer resolves.
	_, err := fixture.core.Sessions.SessionForToken(response.Access.Token.ID)
	require.NoError(t, err)
	fixture.clk.Advance(61 * time.Second)
	_, err = fixture.core.Sessions.SessionForToken(response.Access.Token.ID)
	require.Error(t, err)
}

func TestImpersonationMalformedPayload(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/identity/v2.0/RAX-AUTH/impersonation-tokens", `{}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMossoTenantLookupCreatesSession(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/identity/v1.1/mosso/123456", "")
	require.Equal(t, http.StatusMovedPermanently, recorder.Code)

	var response struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	session := fixture.core.Sessions.SessionForTenantID("123456")
	require.Equal(t, session.Username, response.User.ID)
}

func TestServiceDispatch(t *testing.T) {
	plugin := pluginfakes.NewFakePlugin("hello from the plugin")
	fixture := setupTestFixture(t, plugin)
	key := fixture.core.Services.Register(plugin, []string{"ORD"})[0]

	recorder := fixture.do(t, http.MethodGet, "http://mybase/service/ORD/"+key.ServiceID+"/some/nested/path", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "hello from the plugin", recorder.Body.String())

	// The plugin's resource was rooted at the rewritten base URI.
	require.Equal(t, "http://mybase/service/ORD/"+key.ServiceID+"/", plugin.Store["uri_prefix"])
}

func TestServiceDispatchUnknownPair(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/service/ORD/not-registered/anything", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Contains(t, recorder.Body.String(), "itemNotFound")
}

func TestServiceDispatchDeclinedResource(t *testing.T) {
	plugin := pluginfakes.NewFakePlugin("unused")
	plugin.Declines = true
	fixture := setupTestFixture(t, plugin)
	key := fixture.core.Services.Register(plugin, []string{"ORD"})[0]

	recorder := fixture.do(t, http.MethodGet, "/service/ORD/"+key.ServiceID+"/anything", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPresets(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/mimic/v1.0/presets", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Contains(t, response, "servers")
	require.Contains(t, response, "identity")
}

func TestHelp(t *testing.T) {
	fixture := setupTestFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "/identity/v2.0/tokens")
}
