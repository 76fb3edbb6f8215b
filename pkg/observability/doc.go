/*
Package observability exports Prometheus metrics for the learning pipeline.

Metrics are fed through domain.LearnHooks, so the inducer and the automaton
builder stay unaware of Prometheus. A Metrics value can be registered on any
prometheus.Registerer and dumped to a node-exporter textfile after a CLI run.
*/
package observability
