package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAndCounts(t *testing.T) {
	m := New()

	m.FeaturesLoaded.WithLabelValues("cd").Add(71)
	m.FeaturesRepaired.WithLabelValues("cd").Inc()
	m.OverlapRecords.WithLabelValues("cd").Add(1200)
	m.TablesWritten.WithLabelValues("long").Inc()
	m.TablesWritten.WithLabelValues("wide").Inc()

	assert.Equal(t, 71.0, testutil.ToFloat64(m.FeaturesLoaded.WithLabelValues("cd")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeaturesRepaired.WithLabelValues("cd")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.OverlapRecords.WithLabelValues("cd")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TablesWritten.WithLabelValues("long")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TablesWritten.WithLabelValues("wide")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.FeaturesLoaded.WithLabelValues("cd").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FeaturesLoaded.WithLabelValues("cd")))
}
