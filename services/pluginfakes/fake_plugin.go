package pluginfakes

import (
	"net/http"

	"github.com/jrsteele09/go-cloud-mock/catalog"
	"github.com/jrsteele09/go-cloud-mock/services"
)

var _ services.Plugin = (*FakePlugin)(nil)

// FakePlugin is a minimal Plugin implementation for tests: one catalog entry
// with one ORD endpoint, and a resource that answers every request with a
// fixed message. Calls are recorded in Store for assertions.
type FakePlugin struct {
	ResponseMessage string
	Declines        bool              // When set, ResourceForRegion returns nil
	Store           map[string]string // Records the uri prefixes passed in
}

func NewFakePlugin(responseMessage string) *FakePlugin {
	return &FakePlugin{
		ResponseMessage: responseMessage,
		Store:           make(map[string]string),
	}
}

func (f *FakePlugin) CatalogEntries(tenantID string) []*catalog.Entry {
	return []*catalog.Entry{
		catalog.NewEntry(tenantID, "serviceType", "serviceName",
			catalog.Endpoint{TenantID: tenantID, Region: "ORD", ID: "uuid"}),
	}
}

func (f *FakePlugin) ResourceForRegion(uriPrefix string) http.Handler {
	f.Store["uri_prefix"] = uriPrefix
	if f.Declines {
		return nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(f.ResponseMessage))
	})
}
