package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Identity v2.0 Routes
	RouteTokens              = "/identity/v2.0/tokens"
	RouteTokenEndpoints      = "/identity/v2.0/tokens/{token}/endpoints"
	RouteImpersonationTokens = "/identity/v2.0/RAX-AUTH/impersonation-tokens"

	// Identity v1.1 Routes
	RouteMossoTenant = "/identity/v1.1/mosso/{tenantID}"

	// Control Routes
	RoutePresets = "/mimic/v1.0/presets"

	// Service dispatch: everything beneath a matched (region, service) pair
	// routes into the owning plugin's resource subtree.
	RouteService = "/service/{region}/{serviceID}/"
)
