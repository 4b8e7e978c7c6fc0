package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.HelpHandler())

	// Identity API
	s.RegisterRouteHandler("POST "+RouteTokens, ChainMiddleware(s.TokensHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTokenEndpoints, ChainMiddleware(s.TokenEndpointsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteImpersonationTokens, ChainMiddleware(s.ImpersonationHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMossoTenant, ChainMiddleware(s.MossoTenantHandler(), s.APIMiddleware()...))

	// Control API
	s.RegisterRouteHandler("GET "+RoutePresets, ChainMiddleware(s.PresetsHandler(), s.APIMiddleware()...))

	// Plugin-backed service dispatch (prefix match: the plugin resource owns
	// all routing beneath the matched pair)
	s.RegisterRouteHandler(RouteService, ChainMiddleware(s.ServiceHandler(), s.APIMiddleware()...))
}
