// Package metrics defines the sinks that observe matching runs. Sinks like
// PromSink and InfluxSink live in infra/metrics and register themselves in the
// factory so configuration can select them by name; several sinks are
// combined with NewMultiSink.
package metrics
