package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/go-cloud-mock/catalog"
	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
	"github.com/jrsteele09/go-cloud-mock/sessions"
	"github.com/rs/zerolog/log"
)

// displayTokenLifetime is the expiry advertised for sessions that never
// expire; the identity API always reports an expires timestamp.
const displayTokenLifetime = 24 * time.Hour

type tokensRequest struct {
	Auth struct {
		PasswordCredentials *struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"passwordCredentials"`
		TenantName string `json:"tenantName"`
	} `json:"auth"`
}

type impersonationRequest struct {
	Impersonation *struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		ExpireInSeconds int64 `json:"expire-in-seconds"`
	} `json:"RAX-AUTH:impersonation"`
}

// TokensHandler mints a session for the posted credentials and returns the
// token plus the tenant's full service catalog.
func (s *Server) TokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errs.Wrapf(errs.ErrMalformedRequest, "invalid authentication payload"))
			return
		}
		credentials := req.Auth.PasswordCredentials
		if credentials == nil || credentials.Username == "" {
			writeError(w, errs.Wrapf(errs.ErrMalformedRequest, "passwordCredentials.username is required"))
			return
		}

		session := s.core.Sessions.CreateFromPassword(credentials.Username, credentials.Password, req.Auth.TenantName)
		log.Debug().Str("username", session.Username).Str("tenant", session.TenantID).Msg("minted session")

		baseURI := baseURIFromRequest(r)
		prefixMap := make(map[*catalog.Entry]string)

		response := catalog.NewTokenResponse(
			catalog.TokenParams{
				TenantID: session.TenantID,
				Token:    session.Token,
				Expires:  s.expiresFor(session),
				UserID:   session.UserID,
				Username: session.Username,
			},
			func(tenantID string) []*catalog.Entry {
				return s.core.EntriesForTenant(tenantID, prefixMap, baseURI)
			},
			func(entry *catalog.Entry) string {
				return prefixMap[entry]
			},
		)
		writeJSON(w, http.StatusOK, response)
	}
}

// TokenEndpointsHandler returns the flat endpoints listing for a token. The
// identity mock accepts tokens it never issued: an unknown token gets a
// session minted for it on the spot.
func (s *Server) TokenEndpointsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.core.Sessions.SessionForTokenOrCreate(r.PathValue("token"))

		baseURI := baseURIFromRequest(r)
		prefixMap := make(map[*catalog.Entry]string)

		response := catalog.NewEndpointsResponse(
			session.TenantID,
			func(tenantID string) []*catalog.Entry {
				return s.core.EntriesForTenant(tenantID, prefixMap, baseURI)
			},
			func(entry *catalog.Entry) string {
				return prefixMap[entry]
			},
		)
		writeJSON(w, http.StatusOK, response)
	}
}

// ImpersonationHandler mints a finite-lifetime session on behalf of the
// named user and returns its token and expiry.
func (s *Server) ImpersonationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req impersonationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errs.Wrapf(errs.ErrMalformedRequest, "invalid impersonation payload"))
			return
		}
		if req.Impersonation == nil || req.Impersonation.User.Username == "" {
			writeError(w, errs.Wrapf(errs.ErrMalformedRequest, "impersonation user.username is required"))
			return
		}

		session := s.core.Sessions.CreateImpersonation(req.Impersonation.User.Username, req.Impersonation.ExpireInSeconds)
		writeJSON(w, http.StatusOK, map[string]any{
			"access": map[string]any{
				"token": map[string]any{
					"id":      session.Token,
					"expires": formatTimestamp(session.Expires),
				},
			},
		})
	}
}

// MossoTenantHandler answers the legacy v1.1 tenant lookup. The lookup is
// create-on-miss: a tenant without a session gets one synthesized, so the
// response always names a user.
func (s *Server) MossoTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.core.Sessions.SessionForTenantID(r.PathValue("tenantID"))
		writeJSON(w, http.StatusMovedPermanently, map[string]any{
			"user": map[string]any{"id": session.Username},
		})
	}
}

func (s *Server) expiresFor(session *sessions.Session) string {
	expires := session.Expires
	if expires.IsZero() {
		expires = s.core.Clock.Now().Add(displayTokenLifetime)
	}
	return formatTimestamp(expires)
}
