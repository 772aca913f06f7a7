// Package rules defines the rule model for MARC21 validation: per-tag
// Rule contracts, the RuleSet table, and the layered resolution that
// merges the packaged default table, material-type overlays, and
// caller-supplied overrides into one effective table per validation call.
//
// # Rule Resolution
//
// Resolution is a three-stage pipeline:
//
//  1. Start from the packaged default table (embedded YAML, loaded once).
//  2. For tags 006 and 008, merge the material-type overlay selected by
//     leader byte 6 into the base rule. Overlays win on length and values.
//  3. Apply the caller's RuleContext: with ReplaceAll the context table
//     alone becomes the effective table; otherwise context rules take
//     precedence tag by tag while every other tag keeps its default.
//
// Tag 007 is special: its constraints are keyed by the field's own first
// data byte (the subtype), not by the leader. Rule.ForSubtype selects the
// per-subtype length and values.
//
// Rules are immutable value objects. Overlay and subtype selection return
// new Rule instances; the default table is never mutated, so concurrent
// validation calls need no coordination.
package rules
