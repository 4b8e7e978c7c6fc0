package catalog

import "strings"

// Entry is one service in a tenant's catalog: a named, typed service with an
// ordered list of regional endpoints. Entries are produced fresh by plugins on
// every catalog request and are never cached across tenants.
type Entry struct {
	TenantID  string
	Type      string
	Name      string
	Endpoints []Endpoint
}

// NewEntry creates a catalog entry for a tenant.
func NewEntry(tenantID, serviceType, name string, endpoints ...Endpoint) *Entry {
	return &Entry{
		TenantID:  tenantID,
		Type:      serviceType,
		Name:      name,
		Endpoints: endpoints,
	}
}

// Endpoint is one regional endpoint of a catalog entry. Some services
// transform their tenant ID, so the endpoint carries its own rather than
// relying on the entry's. VersionPrefix is an optional path segment (e.g.
// "v2") inserted before the tenant ID when the public URL is rendered.
type Endpoint struct {
	TenantID      string
	Region        string
	ID            string
	VersionPrefix string
}

// URL renders the endpoint's public URL beneath the supplied URI prefix. The
// prefix is the externally visible base URI rewritten to include the
// /service/<region>/<service_id>/ path for the owning plugin.
func (e Endpoint) URL(prefix string) string {
	segments := make([]string, 0, 2)
	if e.VersionPrefix != "" {
		segments = append(segments, e.VersionPrefix)
	}
	segments = append(segments, e.TenantID)
	return strings.TrimSuffix(prefix, "/") + "/" + strings.Join(segments, "/")
}
