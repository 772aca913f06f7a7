// Package errors provides the violation model for MARC21 record
// validation.
//
// Every rule violation is a Violation carrying a stable kind, a location
// path into the record (e.g. ["fields", "050", "b"] or ["leader", "20"]),
// the offending input, and the context needed to render a human-readable
// message. Violations are accumulated in an ErrorList so that a single
// validation pass reports every problem instead of stopping at the first.
//
// # Basic Usage
//
//	list := errors.NewErrorList()
//	list.Add(errors.NewInvalidIndicator("050", 1, "x", []string{" ", "0", "4"}))
//	list.Add(errors.NewMissingRequiredField("245"))
//
//	if list.HasErrors() {
//	    return list.ToError()
//	}
//
// # Violation Kinds
//
// The kind strings are wire-stable and match the MarcEdit-derived taxonomy
// of the MARC validation domain: control_field_length_invalid,
// invalid_fixed_field, invalid_indicator, subfield_not_allowed,
// non_repeatable_subfield, non_repeatable_field, missing_required_field,
// multiple_1xx_fields, invalid_leader, and leader_length_invalid.
package errors
