package apollo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterResolve(t *testing.T) {
	r := NewRouter()

	h, err := r.Resolve("sequence", "search")
	require.NoError(t, err)
	assert.Equal(t, ResourceSequence, h.Resource)
	assert.Equal(t, OperationSearch, h.Operation)
	assert.True(t, h.Batch)

	_, err = r.Resolve("widget", "search")
	require.Error(t, err)
	var unsupported *UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "widget", unsupported.Resource)
	assert.Equal(t, "search", unsupported.Operation)
	assert.EqualError(t, err, `The operation "search" for resource "widget" is not supported`)

	_, err = r.Resolve("sequence", "enrich")
	assert.Error(t, err)
}

func TestRouterHandlers(t *testing.T) {
	r := NewRouter()
	hs := r.Handlers()
	require.Len(t, hs, 11)

	keys := make([]string, 0, len(hs))
	for _, h := range hs {
		keys = append(keys, h.Key())
		assert.True(t, r.Has(string(h.Resource), string(h.Operation)))
		assert.NotNil(t, h.build, h.Key())
		assert.NotNil(t, h.emit, h.Key())
	}
	assert.Equal(t, []string{
		"contact.create", "contact.search", "contact.update",
		"organization.bulkEnrich", "organization.enrich", "organization.search",
		"person.bulkEnrich", "person.enrich", "person.search",
		"sequence.addContacts", "sequence.search",
	}, keys)

	hs[0] = nil
	assert.NotNil(t, r.Handlers()[0])
}

func TestHandlerFieldsHaveUniqueNames(t *testing.T) {
	for _, h := range NewRouter().Handlers() {
		seen := map[string]bool{}
		for _, f := range h.Fields {
			assert.False(t, seen[f.Name], "%s declares %s twice", h.Key(), f.Name)
			seen[f.Name] = true
		}
		_, ok := h.FieldByName("nope")
		assert.False(t, ok)
	}
}
