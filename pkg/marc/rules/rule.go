package rules

import (
	"regexp"

	"catalog-hq/marcval/pkg/marc"
)

// LeaderTag is the sentinel tag for the synthetic leader rule entry.
const LeaderTag = "LDR"

// tagPattern matches rule table keys: a three-digit tag or the LDR
// sentinel.
var tagPattern = regexp.MustCompile(`^(\d{3}|LDR)$`)

// ValidTag reports whether s is a legal rule table key.
func ValidTag(s string) bool {
	return tagPattern.MatchString(s)
}

// SubfieldRule constrains the subfields of one data field tag.
type SubfieldRule struct {
	// Valid lists every subfield code defined for the field. Empty means
	// no validity constraint.
	Valid []string `yaml:"valid,omitempty" json:"valid,omitempty"`

	// Repeatable lists codes that may appear more than once.
	Repeatable []string `yaml:"repeatable,omitempty" json:"repeatable,omitempty"`

	// NonRepeatable lists codes that may appear at most once.
	NonRepeatable []string `yaml:"non_repeatable,omitempty" json:"non_repeatable,omitempty"`
}

// IsValid reports whether code is in the valid set. With an empty valid
// set every code passes.
func (sr *SubfieldRule) IsValid(code string) bool {
	if len(sr.Valid) == 0 {
		return true
	}
	for _, c := range sr.Valid {
		if c == code {
			return true
		}
	}
	return false
}

// IsNonRepeatable reports whether code is marked non-repeatable.
func (sr *SubfieldRule) IsNonRepeatable(code string) bool {
	for _, c := range sr.NonRepeatable {
		if c == code {
			return true
		}
	}
	return false
}

// Overlay is a partial rule applied on top of a base rule: the length
// and values constraints for one material type (006/008) or one subtype
// byte (007). Overlay fields win wholesale over the base rule's.
type Overlay struct {
	Length *Length             `yaml:"length,omitempty" json:"length,omitempty"`
	Values map[string][]string `yaml:"values,omitempty" json:"values,omitempty"`
}

// Rule is the validation contract for one tag. A Rule is immutable once
// constructed; overlay and subtype selection produce new instances.
type Rule struct {
	// Tag is the three-digit field tag or the LDR sentinel.
	Tag string `yaml:"tag,omitempty" json:"tag,omitempty"`

	// Repeatable reports whether the tag may occur more than once in a
	// record. Nil means unspecified (no cross-field check).
	Repeatable *bool `yaml:"repeatable,omitempty" json:"repeatable,omitempty"`

	// Required reports whether the tag must be present. Nil means
	// unspecified.
	Required *bool `yaml:"required,omitempty" json:"required,omitempty"`

	// Ind1 and Ind2 are the allowed indicator values. An empty set means
	// the indicator is unconstrained.
	Ind1 []string `yaml:"ind1,omitempty" json:"ind1,omitempty"`
	Ind2 []string `yaml:"ind2,omitempty" json:"ind2,omitempty"`

	// Subfields constrains subfield validity and repeatability.
	Subfields *SubfieldRule `yaml:"subfields,omitempty" json:"subfields,omitempty"`

	// Length constrains a control field's data length.
	Length *Length `yaml:"length,omitempty" json:"length,omitempty"`

	// Values maps a zero-padded position key ("06") or inclusive range
	// key ("15-17") to the allowed value set for that slice of a control
	// field or the leader.
	Values map[string][]string `yaml:"values,omitempty" json:"values,omitempty"`

	// MaterialTypes holds per-material overlays for tags 006 and 008,
	// keyed by the leader-derived material type.
	MaterialTypes map[marc.MaterialType]*Overlay `yaml:"material_types,omitempty" json:"material_types,omitempty"`

	// Subtypes holds per-subtype overlays for tag 007, keyed by the
	// field's first data byte.
	Subtypes map[string]*Overlay `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
}

// IsRepeatable reports the repeatable flag, defaulting to true when
// unspecified.
func (r *Rule) IsRepeatable() bool {
	return r.Repeatable == nil || *r.Repeatable
}

// IsRequired reports the required flag, defaulting to false when
// unspecified.
func (r *Rule) IsRequired() bool {
	return r.Required != nil && *r.Required
}

// IndicatorValues returns the allowed set for indicator n (1 or 2).
func (r *Rule) IndicatorValues(n int) []string {
	if n == 1 {
		return r.Ind1
	}
	return r.Ind2
}

// ForMaterialType returns a copy of the rule with the overlay for mt
// merged in. The overlay's length and values win wholesale over the
// base rule's. With no overlay for mt the rule is returned unchanged.
func (r *Rule) ForMaterialType(mt marc.MaterialType) *Rule {
	overlay, ok := r.MaterialTypes[mt]
	if !ok {
		return r
	}
	return r.apply(overlay)
}

// ForSubtype returns the rule selected by a 007 field's first data byte.
// It returns nil when the rule carries no entry for the subtype, meaning
// no length or values validation applies.
func (r *Rule) ForSubtype(subtype string) *Rule {
	overlay, ok := r.Subtypes[subtype]
	if !ok {
		return nil
	}
	return r.apply(overlay)
}

// apply returns a copy of the rule with the overlay's constraints
// substituted in.
func (r *Rule) apply(overlay *Overlay) *Rule {
	merged := *r
	merged.MaterialTypes = nil
	merged.Subtypes = nil
	if overlay.Length != nil {
		merged.Length = overlay.Length
	}
	if overlay.Values != nil {
		merged.Values = overlay.Values
	}
	return &merged
}
