package catalog

// The identity API exposes the same catalog data in two JSON shapes: the
// nested serviceCatalog of a POST /tokens response, and the flat, numbered
// list of a GET /tokens/<token>/endpoints response. Both builders here are
// pure transforms over the entry generator's output: identical inputs yield
// identical documents, entries keep generator order, and nothing is
// deduplicated.

// EntryGenerator produces a tenant's catalog entries, typically by querying
// every registered plugin.
type EntryGenerator func(tenantID string) []*Entry

// PrefixForEntry maps an entry to the URI prefix its endpoints render public
// URLs beneath. It is invoked exactly once per entry; every endpoint of that
// entry shares the returned prefix.
type PrefixForEntry func(entry *Entry) string

// DefaultUserRoles are the canned roles attached to every authenticated user.
var DefaultUserRoles = []Role{
	{ID: "3", Description: "User Admin Role.", Name: "identity:user-admin"},
}

// TokenResponse is the document returned by POST /v2.0/tokens.
type TokenResponse struct {
	Access Access `json:"access"`
}

type Access struct {
	Token          TokenInfo `json:"token"`
	ServiceCatalog []Service `json:"serviceCatalog"`
	User           User      `json:"user"`
}

type TokenInfo struct {
	ID              string   `json:"id"`
	Expires         string   `json:"expires"`
	Tenant          Tenant   `json:"tenant"`
	AuthenticatedBy []string `json:"RAX-AUTH:authenticatedBy"`
}

type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Endpoints []ServiceEndpoint `json:"endpoints"`
}

type ServiceEndpoint struct {
	Region    string `json:"region"`
	TenantID  string `json:"tenantId"`
	PublicURL string `json:"publicURL"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

type Role struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Name        string `json:"name"`
}

// TokenParams carries the session-derived fields of a token response.
type TokenParams struct {
	TenantID string
	Token    string
	Expires  string
	UserID   string
	Username string
}

// NewTokenResponse synthesizes the POST /v2.0/tokens document: token metadata
// plus the nested service catalog, grouped by entry in generator order.
// Endpoints are not numbered in this shape.
func NewTokenResponse(p TokenParams, entries EntryGenerator, prefixForEntry PrefixForEntry) TokenResponse {
	return TokenResponse{
		Access: Access{
			Token: TokenInfo{
				ID:      p.Token,
				Expires: p.Expires,
				Tenant: Tenant{
					ID:   p.TenantID,
					Name: p.TenantID,
				},
				AuthenticatedBy: []string{"PASSWORD"},
			},
			ServiceCatalog: serviceCatalog(entries(p.TenantID), prefixForEntry),
			User: User{
				ID:    p.UserID,
				Name:  p.Username,
				Roles: DefaultUserRoles,
			},
		},
	}
}

func serviceCatalog(entries []*Entry, prefixForEntry PrefixForEntry) []Service {
	services := make([]Service, 0, len(entries))
	for _, entry := range entries {
		prefix := prefixForEntry(entry)
		endpoints := make([]ServiceEndpoint, 0, len(entry.Endpoints))
		for _, endpoint := range entry.Endpoints {
			endpoints = append(endpoints, ServiceEndpoint{
				Region:    endpoint.Region,
				TenantID:  endpoint.TenantID,
				PublicURL: endpoint.URL(prefix),
			})
		}
		services = append(services, Service{
			Name:      entry.Name,
			Type:      entry.Type,
			Endpoints: endpoints,
		})
	}
	return services
}

// EndpointsResponse is the document returned by
// GET /v2.0/tokens/<token>/endpoints.
type EndpointsResponse struct {
	Endpoints []FlatEndpoint `json:"endpoints"`
}

type FlatEndpoint struct {
	Region    string `json:"region"`
	TenantID  string `json:"tenantId"`
	PublicURL string `json:"publicURL"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ID        int    `json:"id"`
}

// NewEndpointsResponse synthesizes the flat endpoints document: every
// endpoint of every entry in generator order, each tagged with a strictly
// increasing id starting at 1 and its owning entry's name and type.
func NewEndpointsResponse(tenantID string, entries EntryGenerator, prefixForEntry PrefixForEntry) EndpointsResponse {
	flattened := make([]FlatEndpoint, 0)
	id := 1
	for _, entry := range entries(tenantID) {
		prefix := prefixForEntry(entry)
		for _, endpoint := range entry.Endpoints {
			flattened = append(flattened, FlatEndpoint{
				Region:    endpoint.Region,
				TenantID:  endpoint.TenantID,
				PublicURL: endpoint.URL(prefix),
				Name:      entry.Name,
				Type:      entry.Type,
				ID:        id,
			})
			id++
		}
	}
	return EndpointsResponse{Endpoints: flattened}
}
