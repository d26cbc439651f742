package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveExecution(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveExecution("person", "enrich", "partial", 2, 1, 150*time.Millisecond)
	c.ObserveExecution("person", "enrich", "success", 3, 0, 50*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Executions.WithLabelValues("person", "enrich", "partial")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.Records.WithLabelValues("person", "enrich")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ItemErrors.WithLabelValues("person", "enrich")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Duration))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilCollectorsAreSafe(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveExecution("person", "enrich", "success", 1, 0, time.Second)
	})
}

func TestNewWithoutRegistry(t *testing.T) {
	c := New(nil)
	c.ObserveExecution("sequence", "search", "failed", 0, 0, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Executions.WithLabelValues("sequence", "search", "failed")))
}
