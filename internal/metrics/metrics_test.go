package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

func TestSearchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	store := logic.NewStore()
	_, err := store.Add(logic.L("dog", "fido"))
	require.NoError(t, err)
	_, err = store.Add(logic.L("dog", "rex"))
	require.NoError(t, err)
	_, err = store.Add(logic.L("barks", "rex"))
	require.NoError(t, err)

	eng := logic.NewEngine(store, logic.WithObserver(m))
	answers := logic.Take(eng.Query(context.Background(), []logic.Term{
		logic.L("dog", "?d"),
		logic.Not(logic.L("barks", "?d")),
	}), 0)
	require.Len(t, answers, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.solutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.negations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.negations.WithLabelValues("failure")))
	assert.Equal(t,
		testutil.ToFloat64(m.factsTried),
		testutil.ToFloat64(m.unifications.WithLabelValues("success"))+testutil.ToFloat64(m.unifications.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cutoffs))
}

func TestSearchMetrics_Cutoffs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	store := logic.NewStore()
	_, err := store.Add(logic.L("ints", "?n"), logic.L("ints", logic.L("s", "?n")))
	require.NoError(t, err)

	eng := logic.NewEngine(store, logic.WithDepthLimit(5), logic.WithObserver(m))
	assert.Empty(t, logic.Take(eng.Query(context.Background(), []logic.Term{logic.L("ints", 0)}), 0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cutoffs))

	n, err := testutil.GatherAndCount(reg, "gokanquery_search_cutoff_depth")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "duplicate registration must fail loudly")
}
