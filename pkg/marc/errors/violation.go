package errors

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-hq/marcval/pkg/marc"
)

// Kind categorizes a validation violation. The values are wire-stable and
// appear verbatim in JSON output.
type Kind string

const (
	// KindControlFieldLength reports a control field whose data length
	// does not match the expected scalar or ranged length.
	KindControlFieldLength Kind = "control_field_length_invalid"
	// KindInvalidFixedField reports a control-field byte or byte range
	// outside its allowed value set.
	KindInvalidFixedField Kind = "invalid_fixed_field"
	// KindInvalidIndicator reports an indicator value outside the tag's
	// allowed set.
	KindInvalidIndicator Kind = "invalid_indicator"
	// KindInvalidSubfield reports a subfield code not defined for its
	// field.
	KindInvalidSubfield Kind = "subfield_not_allowed"
	// KindNonRepeatableSubfield reports a non-repeatable subfield code
	// appearing more than once in one field.
	KindNonRepeatableSubfield Kind = "non_repeatable_subfield"
	// KindNonRepeatableField reports a non-repeatable tag appearing more
	// than once in the record.
	KindNonRepeatableField Kind = "non_repeatable_field"
	// KindMissingRequiredField reports a required tag absent from the
	// record.
	KindMissingRequiredField Kind = "missing_required_field"
	// KindMultipleMainEntry reports more than one 1XX tag in the record.
	KindMultipleMainEntry Kind = "multiple_1xx_fields"
	// KindInvalidLeader reports a leader byte outside its position's
	// allowed set.
	KindInvalidLeader Kind = "invalid_leader"
	// KindLeaderLength reports a leader that is not exactly 24 bytes.
	KindLeaderLength Kind = "leader_length_invalid"
)

// Violation is one rule violation found while validating a record.
type Violation struct {
	// Kind is the violation taxonomy key.
	Kind Kind

	// Loc is the path into the record where the violation occurred,
	// e.g. ["fields", "050", "b"] or ["leader", "20"].
	Loc []string

	// Input is the offending value: a string, a tag, or the offending
	// subfield instances.
	Input any

	// Ctx holds the structured context used to render the message
	// (valid value sets, expected lengths, tag, position).
	Ctx map[string]any
}

// Message renders the human-readable message for the violation. The
// wording follows the MarcEdit-style conventions used across MARC
// tooling.
func (v *Violation) Message() string {
	switch v.Kind {
	case KindControlFieldLength:
		return fmt.Sprintf("%s: Length appears to be invalid. Reported length is: %v. Expected length is: %v",
			v.Ctx["tag"], v.Ctx["length"], v.Ctx["valid"])
	case KindInvalidFixedField:
		return fmt.Sprintf("%s: Invalid character(s) '%v' at position '%s/%s'. Valid characters are: %s.",
			v.Ctx["tag"], v.Input, v.Ctx["tag"], v.Ctx["position"], renderValid(v.Ctx["valid"]))
	case KindInvalidIndicator:
		return fmt.Sprintf("%s %s: Invalid data (%v). Indicator should be %s.",
			v.Ctx["tag"], v.Ctx["ind"], v.Input, renderValid(v.Ctx["valid"]))
	case KindInvalidSubfield:
		return fmt.Sprintf("%s $%s: Subfield cannot be defined in this field.", v.Ctx["tag"], v.Ctx["code"])
	case KindNonRepeatableSubfield:
		return fmt.Sprintf("%s $%s: Subfield cannot repeat.", v.Ctx["tag"], v.Ctx["code"])
	case KindNonRepeatableField:
		return fmt.Sprintf("%v: Has been marked as a non-repeating field.", v.Input)
	case KindMissingRequiredField:
		return fmt.Sprintf("One %v field must be present in a MARC21 record.", v.Input)
	case KindMultipleMainEntry:
		return fmt.Sprintf("1XX: Only one 1XX tag is allowed. Record contains: %s", renderValid(v.Input))
	case KindInvalidLeader:
		return fmt.Sprintf("LDR: Invalid character '%v' at position 'leader/%s'. Valid characters are: %s.",
			v.Input, v.Ctx["position"], renderValid(v.Ctx["valid"]))
	case KindLeaderLength:
		return fmt.Sprintf("LDR: Length appears to be invalid. Reported length is: %v. Expected length is: %d",
			v.Ctx["length"], marc.LeaderLength)
	}
	return string(v.Kind)
}

// MarshalJSON serializes the violation in the error reporting contract:
// {"type", "loc", "msg", "input", "ctx"}.
func (v *Violation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind           `json:"type"`
		Loc   []string       `json:"loc"`
		Msg   string         `json:"msg"`
		Input any            `json:"input"`
		Ctx   map[string]any `json:"ctx,omitempty"`
	}{
		Type:  v.Kind,
		Loc:   v.Loc,
		Msg:   v.Message(),
		Input: v.Input,
		Ctx:   v.Ctx,
	})
}

// renderValid formats an allowed value set the way MARC tooling prints
// value lists: ['a', 'b', '|']. Scalar contexts (the 008 country and
// language hints) render as-is.
func renderValid(valid any) string {
	switch vv := valid.(type) {
	case []string:
		quoted := make([]string, len(vv))
		for i, s := range vv {
			quoted[i] = "'" + s + "'"
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case string:
		return vv
	default:
		return fmt.Sprintf("%v", valid)
	}
}

// NewControlFieldLength reports a control field of the wrong length.
// valid is the expected length: an int or a formatted [min, max] range.
func NewControlFieldLength(tag, data string, valid any) *Violation {
	return &Violation{
		Kind:  KindControlFieldLength,
		Loc:   []string{"fields", tag},
		Input: data,
		Ctx: map[string]any{
			"tag":    tag,
			"valid":  valid,
			"length": len(data),
		},
	}
}

// NewInvalidFixedField reports a control-field byte or byte range outside
// its allowed set. position is the zero-padded position key ("06") or
// range key ("15-17"); valid is the allowed value set or a descriptive
// hint string.
func NewInvalidFixedField(tag, position, input string, valid any) *Violation {
	return &Violation{
		Kind:  KindInvalidFixedField,
		Loc:   []string{"fields", tag, position},
		Input: input,
		Ctx: map[string]any{
			"tag":      tag,
			"position": position,
			"valid":    valid,
		},
	}
}

// NewInvalidIndicator reports an indicator outside the allowed set.
// n is the indicator number (1 or 2).
func NewInvalidIndicator(tag string, n int, input string, valid []string) *Violation {
	ind := fmt.Sprintf("ind%d", n)
	return &Violation{
		Kind:  KindInvalidIndicator,
		Loc:   []string{"fields", tag, ind},
		Input: input,
		Ctx: map[string]any{
			"tag":   tag,
			"ind":   ind,
			"valid": valid,
		},
	}
}

// NewInvalidSubfield reports a subfield code not defined for the field.
// instances are all subfields carrying the offending code.
func NewInvalidSubfield(tag, code string, instances []marc.Subfield) *Violation {
	return &Violation{
		Kind:  KindInvalidSubfield,
		Loc:   []string{"fields", tag, code},
		Input: instances,
		Ctx: map[string]any{
			"tag":  tag,
			"code": code,
		},
	}
}

// NewNonRepeatableSubfield reports a repeated non-repeatable subfield.
// instances are all subfields carrying the offending code.
func NewNonRepeatableSubfield(tag, code string, instances []marc.Subfield) *Violation {
	return &Violation{
		Kind:  KindNonRepeatableSubfield,
		Loc:   []string{"fields", tag, code},
		Input: instances,
		Ctx: map[string]any{
			"tag":  tag,
			"code": code,
		},
	}
}

// NewNonRepeatableField reports a repeated non-repeatable tag.
func NewNonRepeatableField(tag string) *Violation {
	return &Violation{
		Kind:  KindNonRepeatableField,
		Loc:   []string{"fields", tag},
		Input: tag,
		Ctx:   map[string]any{"tag": tag},
	}
}

// NewMissingRequiredField reports an absent required tag.
func NewMissingRequiredField(tag string) *Violation {
	return &Violation{
		Kind:  KindMissingRequiredField,
		Loc:   []string{"fields", tag},
		Input: tag,
		Ctx:   map[string]any{"tag": tag},
	}
}

// NewMultipleMainEntry reports more than one 1XX tag. tags lists every
// main entry tag in record order.
func NewMultipleMainEntry(tags []string) *Violation {
	return &Violation{
		Kind:  KindMultipleMainEntry,
		Loc:   append([]string{"fields"}, tags...),
		Input: tags,
		Ctx:   map[string]any{"tags": tags},
	}
}

// NewInvalidLeader reports a leader byte outside its position's allowed
// set. position is the zero-padded byte position ("00".."23").
func NewInvalidLeader(position, input string, valid []string) *Violation {
	return &Violation{
		Kind:  KindInvalidLeader,
		Loc:   []string{"leader", position},
		Input: input,
		Ctx: map[string]any{
			"position": position,
			"valid":    valid,
		},
	}
}

// NewLeaderLength reports a leader that is not exactly 24 bytes.
func NewLeaderLength(leader string) *Violation {
	return &Violation{
		Kind:  KindLeaderLength,
		Loc:   []string{"leader"},
		Input: leader,
		Ctx:   map[string]any{"length": len(leader)},
	}
}
