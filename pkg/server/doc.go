// Package server exposes record validation over HTTP.
//
// Routes:
//
//	POST /v1/validate      validate one record, optionally with rule overrides
//	GET  /v1/reports       list stored validation reports (when enabled)
//	GET  /v1/reports/{id}  fetch one stored report (when enabled)
//	GET  /healthz          liveness probe
//	GET  /metrics          Prometheus exposition (when enabled)
//
// A request body is the canonical record object, optionally extended with
// top-level "rules" and "replace_all" keys scoped to that request. A
// record with no violations gets a 200 with its canonical form; a record
// with violations gets a 422 with the violation list.
package server
