// Package apollo maps (resource, operation) pairs onto Apollo.io REST calls.
//
// A call flows Router -> Handler -> Normalizer -> Transport: the Router picks
// the Handler, the Handler decodes each Parameter Set into a typed struct,
// normalizes it into a Request and sends it, then reshapes the JSON response
// into Records.
package apollo

import "context"

// DefaultBaseURL is the Apollo.io REST API root.
const DefaultBaseURL = "https://api.apollo.io/api/v1"

// Resource is the entity category an operation applies to.
type Resource string

const (
	ResourceSequence     Resource = "sequence"
	ResourcePerson       Resource = "person"
	ResourceOrganization Resource = "organization"
	ResourceContact      Resource = "contact"
)

// Operation is the verb applied to a Resource.
type Operation string

const (
	OperationSearch      Operation = "search"
	OperationEnrich      Operation = "enrich"
	OperationBulkEnrich  Operation = "bulkEnrich"
	OperationAddContacts Operation = "addContacts"
	OperationCreate      Operation = "create"
	OperationUpdate      Operation = "update"
)

// Params is one Parameter Set: declared field name -> value.
type Params map[string]any

// Record is one output item.
type Record map[string]any

// Request is a Request Fragment. Body and Query keys are Apollo's snake_case names.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
	Query  map[string]any
}

// Doer issues a Request and returns the decoded JSON object.
type Doer interface {
	Do(ctx context.Context, req Request) (map[string]any, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(ctx context.Context, req Request) (map[string]any, error)

func (f DoerFunc) Do(ctx context.Context, req Request) (map[string]any, error) {
	return f(ctx, req)
}
