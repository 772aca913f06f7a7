package rules

import (
	"sort"

	"catalog-hq/marcval/pkg/marc"
)

// RuleSet is a tag-keyed rule table. Lookups for unknown tags return nil,
// which means "no rule": the field is skipped by validation, not flagged.
type RuleSet struct {
	rules map[string]*Rule
}

// NewRuleSet builds a rule set from a tag-keyed map. Rules missing their
// Tag field inherit the map key.
func NewRuleSet(rules map[string]*Rule) *RuleSet {
	table := make(map[string]*Rule, len(rules))
	for tag, r := range rules {
		if r == nil {
			continue
		}
		if r.Tag == "" {
			withTag := *r
			withTag.Tag = tag
			table[tag] = &withTag
			continue
		}
		table[tag] = r
	}
	return &RuleSet{rules: table}
}

// Get returns the rule for a tag, or nil when the table has none.
func (rs *RuleSet) Get(tag string) *Rule {
	return rs.rules[tag]
}

// Leader returns the synthetic LDR rule, or nil.
func (rs *RuleSet) Leader() *Rule {
	return rs.rules[LeaderTag]
}

// Len returns the number of rules in the table.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Tags returns every rule tag in sorted order.
func (rs *RuleSet) Tags() []string {
	tags := make([]string, 0, len(rs.rules))
	for tag := range rs.rules {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// NonRepeatableFields returns the sorted tags marked repeatable: false.
// The LDR sentinel never participates in cross-field checks.
func (rs *RuleSet) NonRepeatableFields() []string {
	var tags []string
	for tag, r := range rs.rules {
		if tag == LeaderTag {
			continue
		}
		if r.Repeatable != nil && !*r.Repeatable {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// RequiredFields returns the sorted tags marked required: true.
func (rs *RuleSet) RequiredFields() []string {
	var tags []string
	for tag, r := range rs.rules {
		if tag == LeaderTag {
			continue
		}
		if r.IsRequired() {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// RuleContext is a caller-supplied rule override scoped to one validation
// call. With ReplaceAll false (the default) the rules are merged on top
// of the default table; with ReplaceAll true the default table is
// discarded and only the supplied rules apply.
type RuleContext struct {
	Rules      map[string]*Rule `yaml:"rules" json:"rules"`
	ReplaceAll bool             `yaml:"replace_all" json:"replace_all"`
}

// Resolve builds the effective rule table for one validation call. The
// default table is never mutated; every call produces a fresh table.
//
// Material-type overlays for 006 and 008 are applied to default rules
// only, keyed by the leader's material type. Context rules take the tag
// as-is: an override for 008 replaces the default rule including its
// overlay handling.
func Resolve(ctx *RuleContext, leader marc.Leader) *RuleSet {
	if ctx != nil && ctx.ReplaceAll {
		return NewRuleSet(ctx.Rules)
	}

	base := Default()
	materialType := leader.MaterialType()

	merged := make(map[string]*Rule, base.Len())
	for tag, r := range base.rules {
		if materialType != "" && (tag == "006" || tag == "008") {
			r = r.ForMaterialType(materialType)
		}
		merged[tag] = r
	}
	if ctx != nil {
		for tag, r := range ctx.Rules {
			if r == nil {
				continue
			}
			if r.Tag == "" {
				withTag := *r
				withTag.Tag = tag
				merged[tag] = &withTag
				continue
			}
			merged[tag] = r
		}
	}
	return &RuleSet{rules: merged}
}
