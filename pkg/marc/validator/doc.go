// Package validator checks MARC21 records against a resolved rule table.
//
// Validation is exhaustive: every checker reports all violations it finds
// and nothing short-circuits, so one pass over a record yields the full
// defect list. Checks run in a fixed order: leader bytes, then each field
// in record order, then record-level rules (repeatability, required
// fields, main entry count).
//
// A Validator is safe for concurrent use once constructed.
package validator
