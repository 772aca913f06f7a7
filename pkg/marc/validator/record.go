package validator

import (
	"strings"

	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
)

// Validator checks records against the packaged default rule table,
// optionally adjusted by a caller rule context.
type Validator struct {
	ctx *rules.RuleContext
}

// Option configures a Validator.
type Option func(*Validator)

// WithRuleContext applies a caller rule override to every record the
// validator checks. A nil context leaves the default table as-is.
func WithRuleContext(ctx *rules.RuleContext) Option {
	return func(v *Validator) {
		v.ctx = ctx
	}
}

// New builds a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks a record and returns every violation found. The result
// is never nil; an empty list means the record is valid. Validating the
// same record twice yields identical output.
func (v *Validator) Validate(rec *marc.Record) *marcerrors.ErrorList {
	list := marcerrors.NewErrorList()
	set := rules.Resolve(v.ctx, rec.Leader)

	list.Extend(CheckLeader(set.Leader(), rec.Leader))

	for _, f := range rec.Fields {
		rule := set.Get(f.FieldTag())
		if rule == nil {
			continue
		}
		switch fld := f.(type) {
		case *marc.ControlField:
			list.Extend(CheckControlField(rule, fld))
		case *marc.DataField:
			list.Extend(CheckDataField(rule, fld))
		}
	}

	list.Extend(CheckRecordRules(set, rec))
	return list
}

// Validate checks a record against the packaged default rule table.
func Validate(rec *marc.Record) *marcerrors.ErrorList {
	return New().Validate(rec)
}

// CheckRecordRules runs the cross-field checks: non-repeatable tags,
// required tags, and the single main entry constraint. Rule tags are
// visited in sorted order so output is deterministic.
func CheckRecordRules(set *rules.RuleSet, rec *marc.Record) []*marcerrors.Violation {
	var out []*marcerrors.Violation

	counts := make(map[string]int, len(rec.Fields))
	for _, f := range rec.Fields {
		counts[f.FieldTag()]++
	}

	for _, tag := range set.NonRepeatableFields() {
		if counts[tag] > 1 {
			out = append(out, marcerrors.NewNonRepeatableField(tag))
		}
	}
	for _, tag := range set.RequiredFields() {
		if counts[tag] == 0 {
			out = append(out, marcerrors.NewMissingRequiredField(tag))
		}
	}

	// Main entry: at most one 1XX field per record, regardless of tag.
	var mainEntries []string
	for _, f := range rec.Fields {
		if !f.Control() && strings.HasPrefix(f.FieldTag(), "1") {
			mainEntries = append(mainEntries, f.FieldTag())
		}
	}
	if len(mainEntries) > 1 {
		out = append(out, marcerrors.NewMultipleMainEntry(mainEntries))
	}
	return out
}
