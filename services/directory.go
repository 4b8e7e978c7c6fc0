package services

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-cloud-mock/catalog"
	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
)

// Plugin is the contract every mocked service implements. Implementations
// are registered with the Directory as interchangeable variants.
type Plugin interface {
	// CatalogEntries produces the plugin's catalog entries for a tenant.
	// Plugins that should not show up in the catalog return nothing.
	CatalogEntries(tenantID string) []*catalog.Entry

	// ResourceForRegion returns the request-handling resource rooted at the
	// given URI prefix, or nil when the plugin declines to serve it. The
	// resource owns all further routing beneath the prefix.
	ResourceForRegion(uriPrefix string) http.Handler
}

// ServiceKey identifies one pluggable service instance: a region plus the
// service ID assigned to the plugin in that region.
type ServiceKey struct {
	Region    string
	ServiceID string
}

type registration struct {
	plugin Plugin
	key    ServiceKey
}

// Directory owns the ServiceKey to Plugin mapping. Service IDs are assigned
// once per (plugin, region) pair and are stable for the life of the process,
// so re-resolving the same key always yields the same plugin.
type Directory struct {
	lock          sync.RWMutex
	registrations []registration
	byKey         map[ServiceKey]Plugin
}

// NewDirectory creates an empty service directory.
func NewDirectory() *Directory {
	return &Directory{
		byKey: make(map[ServiceKey]Plugin),
	}
}

// Register assigns the plugin a service ID in every listed region and
// returns the resulting keys. Registering a (plugin, region) pair that has
// been seen before reuses the existing ID rather than minting a new one.
func (d *Directory) Register(plugin Plugin, regions []string) []ServiceKey {
	d.lock.Lock()
	defer d.lock.Unlock()

	keys := make([]ServiceKey, 0, len(regions))
	for _, region := range regions {
		key, ok := d.existingKey(plugin, region)
		if !ok {
			key = ServiceKey{Region: region, ServiceID: uuid.New().String()}
			d.registrations = append(d.registrations, registration{plugin: plugin, key: key})
			d.byKey[key] = plugin
		}
		keys = append(keys, key)
	}
	return keys
}

// existingKey expects the lock to be held.
func (d *Directory) existingKey(plugin Plugin, region string) (ServiceKey, bool) {
	for _, reg := range d.registrations {
		if reg.plugin == plugin && reg.key.Region == region {
			return reg.key, true
		}
	}
	return ServiceKey{}, false
}

// Resolve looks up the plugin registered for a (region, serviceID) pair.
// Unregistered pairs fail with ErrServiceNotFound.
func (d *Directory) Resolve(region, serviceID string) (Plugin, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	plugin, ok := d.byKey[ServiceKey{Region: region, ServiceID: serviceID}]
	if !ok {
		return nil, errs.Wrapf(errs.ErrServiceNotFound, "service %q in region %q", serviceID, region)
	}
	return plugin, nil
}

// Plugins returns the registered plugins in registration order, each plugin
// once regardless of how many regions it serves.
func (d *Directory) Plugins() []Plugin {
	d.lock.RLock()
	defer d.lock.RUnlock()

	plugins := make([]Plugin, 0, len(d.registrations))
	for _, reg := range d.registrations {
		if !containsPlugin(plugins, reg.plugin) {
			plugins = append(plugins, reg.plugin)
		}
	}
	return plugins
}

func containsPlugin(plugins []Plugin, plugin Plugin) bool {
	for _, p := range plugins {
		if p == plugin {
			return true
		}
	}
	return false
}

// URIForService rewrites a base URI to the service-scoped prefix nested
// resources build their sub-paths from.
func URIForService(baseURI, region, serviceID string) string {
	return strings.TrimSuffix(baseURI, "/") + "/service/" + region + "/" + serviceID + "/"
}

// EntriesForTenant queries every registered plugin for the tenant's catalog
// entries, in registration order, and records each entry's URI prefix in the
// caller-supplied prefixMap. The prefix is derived from the service ID the
// entry's plugin holds in the entry's first endpoint's region.
func (d *Directory) EntriesForTenant(tenantID string, prefixMap map[*catalog.Entry]string, baseURI string) []*catalog.Entry {
	entries := make([]*catalog.Entry, 0)
	for _, plugin := range d.Plugins() {
		for _, entry := range plugin.CatalogEntries(tenantID) {
			entries = append(entries, entry)
			prefixMap[entry] = d.prefixForEntry(plugin, entry, baseURI)
		}
	}
	return entries
}

func (d *Directory) prefixForEntry(plugin Plugin, entry *catalog.Entry, baseURI string) string {
	region := ""
	if len(entry.Endpoints) > 0 {
		region = entry.Endpoints[0].Region
	}

	d.lock.RLock()
	defer d.lock.RUnlock()
	key, ok := d.existingKey(plugin, region)
	if !ok {
		// The entry names a region the plugin was never registered in; fall
		// back to the plugin's first registration so the URL is still usable.
		for _, reg := range d.registrations {
			if reg.plugin == plugin {
				key = reg.key
				break
			}
		}
	}
	return URIForService(baseURI, key.Region, key.ServiceID)
}
