// Package core wires the session registry and service directory into the one
// explicit object the HTTP boundary threads through every request-handling
// call. There is no process-wide singleton: construct a Core at startup and
// pass it down.
package core

import (
	"net/http"

	"github.com/jrsteele09/go-cloud-mock/catalog"
	"github.com/jrsteele09/go-cloud-mock/clock"
	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
	"github.com/jrsteele09/go-cloud-mock/sessions"
	"github.com/jrsteele09/go-cloud-mock/services"
)

type Core struct {
	Clock    clock.Clock
	Sessions *sessions.Registry
	Services *services.Directory
}

// New creates a Core with the given time source and registers every plugin
// in every listed region.
func New(clk clock.Clock, plugins []services.Plugin, regions []string) *Core {
	directory := services.NewDirectory()
	for _, plugin := range plugins {
		directory.Register(plugin, regions)
	}

	return &Core{
		Clock:    clk,
		Sessions: sessions.NewRegistry(sessions.WithClock(clk)),
		Services: directory,
	}
}

// EntriesForTenant returns the tenant's catalog entries and records each
// entry's URI prefix in prefixMap for the catalog projections to look up.
// baseURI is the externally visible base URI of the inbound request.
func (c *Core) EntriesForTenant(tenantID string, prefixMap map[*catalog.Entry]string, baseURI string) []*catalog.Entry {
	return c.Services.EntriesForTenant(tenantID, prefixMap, baseURI)
}

// ServiceWithRegion resolves a (region, serviceID) pair to the plugin's
// request-handling resource, rooted at the service-scoped URI prefix. An
// unregistered pair fails with ErrServiceNotFound; a registered plugin that
// declines to produce a resource fails with ErrNotFound. The boundary maps
// both to a not-found response, but they are distinct conditions.
func (c *Core) ServiceWithRegion(region, serviceID, baseURI string) (http.Handler, error) {
	plugin, err := c.Services.Resolve(region, serviceID)
	if err != nil {
		return nil, err
	}

	resource := plugin.ResourceForRegion(services.URIForService(baseURI, region, serviceID))
	if resource == nil {
		return nil, errs.Wrapf(errs.ErrNotFound, "service %q in region %q declined the request", serviceID, region)
	}
	return resource, nil
}
