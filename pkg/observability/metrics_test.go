package observability_test

import (
	"testing"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/dsl"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	b := dsl.New()
	b.Level().Count(2).Field("title", "$(Noun)")
	b.Level().Count(3).Field("title", "$(Verb)")
	b.Level().Count(0)
	levels, err := b.Build()
	require.NoError(t, err)

	gen := thicket.New(thicket.WithSeed(1), thicket.WithLifecycleHooks(m.Hooks()))
	_, err = gen.Generate(levels)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodesGenerated.WithLabelValues("0")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.NodesGenerated.WithLabelValues("1")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.LevelsPruned.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds))

	n, err := testutil.GatherAndCount(reg, "thicket_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
