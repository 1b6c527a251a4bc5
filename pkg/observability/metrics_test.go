package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_RecordBusyBeaver(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	prog, err := dsl.New("bb2").
		Blank("0").
		Start("A").
		Halt("H").
		On("A", "0").Write("1").Right().Goto("B").
		On("A", "1").Write("1").Left().Goto("H").
		On("B", "0").Write("1").Left().Goto("A").
		On("B", "1").Write("1").Right().Goto("B").
		Compile()
	require.NoError(t, err)

	m, err := prog.New(turing.WithLifecycleHooks(observability.Hooks[string, string](metrics)))
	require.NoError(t, err)
	m.Run()
	metrics.ObserveRun(m.Steps())

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Halts))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Extensions.WithLabelValues("Right")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Extensions.WithLabelValues("Left")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunSteps))
}

func TestMetrics_Handler(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	metrics.Steps.Add(7)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "turing_steps_total 7")
	assert.Contains(t, rec.Body.String(), "# TYPE turing_run_steps histogram")
}
