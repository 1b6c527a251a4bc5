/*
Package observability exposes machine activity as Prometheus metrics.

Metrics are recorded through lifecycle hooks, so any machine can be observed
without changes to the engine:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	m, err := turing.New(desc, tape,
		turing.WithLifecycleHooks(observability.Hooks[string, string](metrics)),
	)
*/
package observability
