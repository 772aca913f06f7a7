package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"catalog-hq/marcval/pkg/cli"
	"catalog-hq/marcval/pkg/marc"
	"catalog-hq/marcval/pkg/marc/rules"
)

var rulesFlags struct {
	leader    string
	rulesFile string
	format    string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the effective validation rule table",
	Long: `Inspect the rule table a validation run would use.

By default the packaged MARC21 table is shown. Supply --leader to narrow
the 006/008 rules for that leader's material type, and --rules to apply a
caller override file, exactly as a validation run would.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show TAG",
	Short: "Show the rule for one tag",
	Long: `Show the effective rule for one tag (a three-digit tag or LDR).

Examples:
  # Show the 245 rule from the packaged table
  marcval rules show 245

  # Show the 008 rule narrowed for a computer-file record
  marcval rules show 008 --leader "00000cmm a2200000 i 4500"`,
	Args: cobra.ExactArgs(1),
	RunE: showRule,
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective rule table",
	Long:  `Dump a summary of every rule in the effective table, sorted by tag.`,
	RunE:  dumpRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesDumpCmd)

	for _, c := range []*cobra.Command{rulesShowCmd, rulesDumpCmd} {
		c.Flags().StringVar(&rulesFlags.leader, "leader", "", "narrow 006/008 rules for this leader's material type")
		c.Flags().StringVar(&rulesFlags.rulesFile, "rules", "", "rule override file (YAML)")
	}
	rulesShowCmd.Flags().StringVar(&rulesFlags.format, "format", "json", "output format: text, json")
}

func effectiveRuleSet() (*rules.RuleSet, error) {
	var ctx *rules.RuleContext
	if rulesFlags.rulesFile != "" {
		var err error
		ctx, err = rules.LoadContextFile(rulesFlags.rulesFile)
		if err != nil {
			return nil, err
		}
	}
	return rules.Resolve(ctx, marc.Leader(rulesFlags.leader)), nil
}

func showRule(cmd *cobra.Command, args []string) error {
	tag := args[0]
	if !rules.ValidTag(tag) {
		return cli.NewCommandError("rules show",
			fmt.Errorf("invalid tag %q: must be a three-digit tag or LDR", tag))
	}

	set, err := effectiveRuleSet()
	if err != nil {
		return cli.NewCommandError("rules show", err)
	}

	rule := set.Get(tag)
	if rule == nil {
		return cli.NewCommandError("rules show", fmt.Errorf("no rule defined for tag %s", tag))
	}

	format, err := cli.ParseFormat(rulesFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatText {
		fmt.Fprint(cmd.OutOrStdout(), summarizeRule(tag, rule))
		return nil
	}
	return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), rule)
}

func dumpRules(cmd *cobra.Command, args []string) error {
	set, err := effectiveRuleSet()
	if err != nil {
		return cli.NewCommandError("rules dump", err)
	}

	tags := set.Tags()

	w := cmd.OutOrStdout()
	for _, tag := range tags {
		fmt.Fprint(w, summarizeRule(tag, set.Get(tag)))
	}
	fmt.Fprintf(w, "%d rules\n", len(tags))
	return nil
}

// summarizeRule renders a one-line-per-attribute summary of a rule.
func summarizeRule(tag string, r *rules.Rule) string {
	var sb strings.Builder
	sb.WriteString(tag)

	var attrs []string
	if r.Repeatable != nil {
		if *r.Repeatable {
			attrs = append(attrs, "repeatable")
		} else {
			attrs = append(attrs, "non-repeatable")
		}
	}
	if r.Required != nil && *r.Required {
		attrs = append(attrs, "required")
	}
	if r.Length != nil {
		attrs = append(attrs, fmt.Sprintf("length %v", r.Length.Expected()))
	}
	if len(r.Values) > 0 {
		attrs = append(attrs, fmt.Sprintf("%d byte position(s)", len(r.Values)))
	}
	if len(r.Ind1) > 0 || len(r.Ind2) > 0 {
		attrs = append(attrs, "indicators")
	}
	if r.Subfields != nil && len(r.Subfields.Valid) > 0 {
		attrs = append(attrs, fmt.Sprintf("%d subfield code(s)", len(r.Subfields.Valid)))
	}
	if len(r.Subtypes) > 0 {
		attrs = append(attrs, fmt.Sprintf("%d subtype(s)", len(r.Subtypes)))
	}

	if len(attrs) == 0 {
		sb.WriteString(": no constraints")
	} else {
		sb.WriteString(": " + strings.Join(attrs, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}
