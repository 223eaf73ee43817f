// Package instrumentation provides OpenTelemetry metrics for the digest
// pipeline.
//
// Metrics cover the two external surfaces of a run, calendar fetches and
// Telegram deliveries, plus the run outcome itself. The default exporter
// is Prometheus, served on /metrics in listen mode; a stdout exporter is
// available for local debugging. Instrumentation can be disabled
// entirely via INSTRUMENTATION_ENABLED=false, in which case all
// recording methods are no-ops.
package instrumentation
