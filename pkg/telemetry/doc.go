// Package telemetry provides observability for marcval.
//
// # Components
//
//   - logging: structured logging over log/slog with context field
//     extraction (request ID, control number, rule source)
//   - metrics: Prometheus collectors for validation outcomes, violation
//     kinds, durations, and rule table state
//
// Both components are wired by the serve command; library use of the
// validator carries no telemetry dependency.
package telemetry
