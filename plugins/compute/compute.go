// Package compute is a built-in mock of an OpenStack-style compute service.
// It keeps an in-memory server inventory per tenant and serves the handful
// of endpoints client libraries touch when smoke-testing against the mock.
package compute

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-cloud-mock/catalog"
	"github.com/jrsteele09/go-cloud-mock/services"
)

const (
	serviceType = "compute"
	serviceName = "cloudServersOpenStack"
)

var _ services.Plugin = (*Plugin)(nil)

// Plugin serves a mocked compute API in each of its regions. State lives on
// the plugin, not the per-request resource, so resources can be rebuilt on
// every request without losing the inventory.
type Plugin struct {
	regions []string

	lock    sync.RWMutex
	servers map[string][]Server // tenantID -> servers, creation order
}

// Server is one mocked compute instance.
type Server struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

type Link struct {
	HRef string `json:"href"`
	Rel  string `json:"rel"`
}

// New creates a compute plugin advertising an endpoint in each region.
func New(regions ...string) *Plugin {
	if len(regions) == 0 {
		regions = []string{"ORD"}
	}
	return &Plugin{
		regions: regions,
		servers: make(map[string][]Server),
	}
}

func (p *Plugin) CatalogEntries(tenantID string) []*catalog.Entry {
	endpoints := make([]catalog.Endpoint, 0, len(p.regions))
	for _, region := range p.regions {
		endpoints = append(endpoints, catalog.Endpoint{
			TenantID:      tenantID,
			Region:        region,
			ID:            uuid.New().String(),
			VersionPrefix: "v2",
		})
	}
	return []*catalog.Entry{
		catalog.NewEntry(tenantID, serviceType, serviceName, endpoints...),
	}
}

// ResourceForRegion builds the request-handling resource rooted at the
// service-scoped URI prefix. Construction is side-effect-free; the prefix is
// only used to render self links.
func (p *Plugin) ResourceForRegion(uriPrefix string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/{tenant}/servers", p.listServers())
	mux.HandleFunc("GET /v2/{tenant}/servers/detail", p.listServers())
	mux.HandleFunc("POST /v2/{tenant}/servers", p.createServer(uriPrefix))
	mux.HandleFunc("GET /v2/{tenant}/servers/{serverID}", p.getServer())
	mux.HandleFunc("DELETE /v2/{tenant}/servers/{serverID}", p.deleteServer())
	return mux
}

func (p *Plugin) listServers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.lock.RLock()
		servers := make([]Server, 0, len(p.servers[r.PathValue("tenant")]))
		servers = append(servers, p.servers[r.PathValue("tenant")]...)
		p.lock.RUnlock()

		writeJSON(w, http.StatusOK, map[string]any{"servers": servers})
	}
}

func (p *Plugin) createServer(uriPrefix string) http.HandlerFunc {
	type createRequest struct {
		Server struct {
			Name string `json:"name"`
		} `json:"server"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed server creation request", http.StatusBadRequest)
			return
		}

		tenantID := r.PathValue("tenant")
		server := Server{
			ID:     uuid.New().String(),
			Name:   req.Server.Name,
			Status: "ACTIVE",
		}
		server.Links = []Link{{
			HRef: uriPrefix + "v2/" + tenantID + "/servers/" + server.ID,
			Rel:  "self",
		}}

		p.lock.Lock()
		p.servers[tenantID] = append(p.servers[tenantID], server)
		p.lock.Unlock()

		writeJSON(w, http.StatusAccepted, map[string]any{"server": server})
	}
}

func (p *Plugin) getServer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		server, ok := p.findServer(r.PathValue("tenant"), r.PathValue("serverID"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"itemNotFound": map[string]any{"message": "Instance could not be found", "code": 404},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"server": server})
	}
}

func (p *Plugin) deleteServer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.PathValue("tenant")
		serverID := r.PathValue("serverID")

		p.lock.Lock()
		defer p.lock.Unlock()
		for i, server := range p.servers[tenantID] {
			if server.ID == serverID {
				p.servers[tenantID] = append(p.servers[tenantID][:i], p.servers[tenantID][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{
			"itemNotFound": map[string]any{"message": "Instance could not be found", "code": 404},
		})
	}
}

func (p *Plugin) findServer(tenantID, serverID string) (Server, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, server := range p.servers[tenantID] {
		if server.ID == serverID {
			return server, true
		}
	}
	return Server{}, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
