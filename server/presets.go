package server

import "net/http"

// presets are the static control values test runs can consult to trigger
// canned failure behaviours in the mocked services.
var presets = map[string]any{
	"servers": map[string]any{
		"invalid_image_ref":  []string{"INVALID-IMAGE-ID", "1111", "image_ends_with_z"},
		"invalid_flavor_ref": []string{"INVALID-FLAVOR-ID", "8888", "flavor_ends_with_z"},
	},
	"identity": map[string]any{
		"token_fail_to_auth":     []string{"never-cache-this-token"},
		"non_dedicated_observer": []string{"OneTwoThreeFourFive"},
	},
	"loadbalancers": map[string]any{
		"lb_building":       1,
		"lb_error_state":    2,
		"lb_pending_update": 3,
		"lb_pending_delete": 4,
	},
}

// PresetsHandler returns the preset values for the mock.
func (s *Server) PresetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, presets)
	}
}
