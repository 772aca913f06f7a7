// Package metrics exposes Prometheus metrics for the validation pipeline.
package metrics
