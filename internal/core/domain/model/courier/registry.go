package courier

import "sync"

// Registry is the process-wide catalog of registered courier providers.
//
// It is an explicitly constructed object passed by reference, never
// language-level static state, so tests can build isolated registries and
// Clear between cases without polluting the process. Populated at startup;
// never persisted.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Provider)}
}

// Register adds a provider under its id. Registering an id twice overwrites
// the previous binding (last registration wins), which lets tests and tenant
// setup replace individual integrations. An overwritten id keeps its original
// position in All.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID()
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = p
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// Has reports whether a provider is registered under id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok
}

// All returns the registered providers in registration order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		providers = append(providers, r.byID[id])
	}
	return providers
}

// Clear removes every registration. Test utility.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.byID = make(map[string]Provider)
}

// DefaultPriority is the default provider scan order for voucher resolution.
// The order is a deployment-level contract: reordering it changes which
// courier API receives traffic for ambiguous vouchers.
func DefaultPriority() []string {
	return []string{
		ACSProviderID,
		GenikiProviderID,
		ELTAProviderID,
		SpeedexProviderID,
		GenericProviderID,
	}
}
