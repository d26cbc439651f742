package apollo

import (
	"context"
	"fmt"
	"sort"
)

type routeKey struct {
	resource  Resource
	operation Operation
}

// Router holds the dispatch table from (resource, operation) to Handler.
//
// The table is fixed at construction and safe for concurrent use.
type Router struct {
	routes map[routeKey]*Handler
	order  []*Handler
}

// NewRouter creates a Router with every supported operation registered.
func NewRouter() *Router {
	r := &Router{routes: make(map[routeKey]*Handler)}
	for _, group := range [][]*Handler{sequenceHandlers, personHandlers, organizationHandlers, contactHandlers} {
		for _, h := range group {
			if err := r.register(h); err != nil {
				panic(err)
			}
		}
	}
	sort.Slice(r.order, func(i, j int) bool {
		if r.order[i].Resource != r.order[j].Resource {
			return r.order[i].Resource < r.order[j].Resource
		}
		return r.order[i].Operation < r.order[j].Operation
	})
	return r
}

func (r *Router) register(h *Handler) error {
	key := routeKey{h.Resource, h.Operation}
	if _, exists := r.routes[key]; exists {
		return fmt.Errorf("operation %s already registered", h.Key())
	}
	r.routes[key] = h
	r.order = append(r.order, h)
	return nil
}

// Resolve returns the Handler for the given pair or an *UnsupportedOperationError.
func (r *Router) Resolve(resource, operation string) (*Handler, error) {
	h, ok := r.routes[routeKey{Resource(resource), Operation(operation)}]
	if !ok {
		return nil, &UnsupportedOperationError{Resource: resource, Operation: operation}
	}
	return h, nil
}

// Has reports whether the pair is registered.
func (r *Router) Has(resource, operation string) bool {
	_, ok := r.routes[routeKey{Resource(resource), Operation(operation)}]
	return ok
}

// Handlers lists every registered Handler ordered by resource, then operation.
func (r *Router) Handlers() []*Handler {
	out := make([]*Handler, len(r.order))
	copy(out, r.order)
	return out
}

// Execute resolves the pair and runs its Handler.
func (r *Router) Execute(ctx context.Context, resource, operation string, ex Execution) ([]Record, error) {
	h, err := r.Resolve(resource, operation)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx, ex)
}
