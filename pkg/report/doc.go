// Package report persists validation outcomes.
//
// Each validation pass can be recorded as a Report: the record identity,
// the outcome, and the full violation list as JSON. Storage backends
// implement the Store interface; the SQLite backend is the default and
// an in-memory backend exists for tests and ephemeral use.
package report
