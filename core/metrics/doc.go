// Package metrics provides Prometheus metrics for the export pipeline.
//
// Collectors are registered on the default registry at package init and
// exposed through a fiber route (see Register) backed by promhttp.
package metrics
