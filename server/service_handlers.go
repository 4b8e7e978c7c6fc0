package server

import (
	"fmt"
	"net/http"
)

// ServiceHandler dispatches /service/<region>/<serviceID>/... requests into
// the resource of the plugin registered for that pair. Matching is
// prefix-based: the plugin resource sees paths relative to the matched pair
// and owns all further routing.
func (s *Server) ServiceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region := r.PathValue("region")
		serviceID := r.PathValue("serviceID")

		resource, err := s.core.ServiceWithRegion(region, serviceID, baseURIFromRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}

		prefix := fmt.Sprintf("/service/%s/%s", region, serviceID)
		http.StripPrefix(prefix, resource).ServeHTTP(w, r)
	}
}

// HelpHandler greets callers poking at the root with a pointer to the
// authentication endpoint.
func (s *Server) HelpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "To get started with %s, POST an authentication request to:\n\n%s", s.config.GetAppName(), RouteTokens)
	}
}
