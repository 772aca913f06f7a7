package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/default_rules.yaml
var defaultRulesYAML []byte

var (
	defaultOnce sync.Once
	defaultSet  *RuleSet
	defaultErr  error
)

// Default returns the packaged default rule table. The table is parsed
// once on first access and shared read-only for the process lifetime.
// A malformed packaged table is a build defect, not a runtime condition,
// so Default panics on parse failure.
func Default() *RuleSet {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = parseRuleTable(defaultRulesYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("packaged rule table is invalid: %v", defaultErr))
	}
	return defaultSet
}

// parseRuleTable decodes a tag-keyed YAML rule table.
func parseRuleTable(data []byte) (*RuleSet, error) {
	var raw map[string]*Rule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rule table: %w", err)
	}
	for tag := range raw {
		if !ValidTag(tag) {
			return nil, fmt.Errorf("invalid rule table key %q: must be a three-digit tag or LDR", tag)
		}
	}
	return NewRuleSet(raw), nil
}

// ruleFile is the on-disk shape of a caller rule override file.
type ruleFile struct {
	Rules      map[string]*Rule `yaml:"rules"`
	ReplaceAll bool             `yaml:"replace_all"`
}

// LoadContextFile reads a caller rule override from a YAML file:
//
//	replace_all: false
//	rules:
//	  "245":
//	    repeatable: false
//	    required: true
//
// The result is scoped to validation calls that receive it; the packaged
// default table is unaffected.
func LoadContextFile(path string) (*RuleContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}
	return ParseContext(data)
}

// ParseContext decodes a caller rule override from YAML bytes.
func ParseContext(data []byte) (*RuleContext, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	for tag := range rf.Rules {
		if !ValidTag(tag) {
			return nil, fmt.Errorf("invalid rule key %q: must be a three-digit tag or LDR", tag)
		}
	}
	return &RuleContext{Rules: rf.Rules, ReplaceAll: rf.ReplaceAll}, nil
}
