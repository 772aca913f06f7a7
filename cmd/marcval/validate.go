package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"catalog-hq/marcval/pkg/cli"
	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
	"catalog-hq/marcval/pkg/marc/validator"
)

var validateFlags struct {
	file       string
	rulesFile  string
	replaceAll bool
	format     string
	progress   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate MARC21 records from a JSON file",
	Long: `Validate one or more MARC21 records against the rule tables.

The input file holds either a single record object or an array of record
objects in the structured JSON contract:

  {"leader": "...", "fields": [{"001": "..."}, {"245": {"ind1": "1", ...}}]}

Every violation in every record is reported. The command exits non-zero
when any record is invalid.

Examples:
  # Validate a single record
  marcval validate --file record.json

  # Validate a batch from stdin
  cat records.json | marcval validate --file -

  # Apply caller rule overrides
  marcval validate --file record.json --rules overrides.yaml

  # Discard the default table, keeping only override rules
  marcval validate --file record.json --rules overrides.yaml --replace-all

  # JSON output for CI/CD
  marcval validate --file record.json --format json`,
	RunE: validateRecords,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "record file to validate (- for stdin)")
	validateCmd.Flags().StringVar(&validateFlags.rulesFile, "rules", "", "rule override file (YAML)")
	validateCmd.Flags().BoolVar(&validateFlags.replaceAll, "replace-all", false, "use only the override rules, discarding the default table")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show progress for batch input")
	_ = validateCmd.MarkFlagRequired("file")
}

// recordResult is the per-record outcome in command output.
type recordResult struct {
	Index          int                     `json:"index"`
	ControlNumber  string                  `json:"control_number,omitempty"`
	Valid          bool                    `json:"valid"`
	ViolationCount int                     `json:"violation_count"`
	Violations     []*marcerrors.Violation `json:"violations,omitempty"`
}

func validateRecords(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validateFlags.format)
	if err != nil {
		return err
	}

	data, err := readInput(validateFlags.file)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if len(records) == 0 {
		return cli.NewCommandError("validate", fmt.Errorf("input contains no records"))
	}

	ruleCtx, err := loadRuleContext()
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	v := validator.New(validator.WithRuleContext(ruleCtx))

	var progress cli.ProgressReporter
	if validateFlags.progress && len(records) > 1 {
		progress = cli.NewProgressReporter(os.Stderr)
		progress.Start(int64(len(records)))
	}

	results := make([]recordResult, 0, len(records))
	invalid := 0
	for i, rec := range records {
		list := v.Validate(rec)
		result := recordResult{
			Index:          i,
			ControlNumber:  rec.ControlNumber(),
			Valid:          !list.HasErrors(),
			ViolationCount: list.Count(),
		}
		if list.HasErrors() {
			invalid++
			result.Violations = list.Violations
		}
		results = append(results, result)
		if progress != nil {
			progress.Update(int64(i + 1))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		printResultsText(cmd.OutOrStdout(), results)
	}

	if invalid > 0 {
		cmd.SilenceUsage = true
		return cli.NewValidationError(invalid, len(records))
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeRecords accepts a single record object or an array of records.
func decodeRecords(data []byte) ([]*marc.Record, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	if trimmed[0] == '[' {
		var records []*marc.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse record array: %w", err)
		}
		return records, nil
	}

	var rec marc.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return []*marc.Record{&rec}, nil
}

func loadRuleContext() (*rules.RuleContext, error) {
	if validateFlags.rulesFile == "" {
		if validateFlags.replaceAll {
			return nil, fmt.Errorf("--replace-all requires --rules")
		}
		return nil, nil
	}

	ctx, err := rules.LoadContextFile(validateFlags.rulesFile)
	if err != nil {
		return nil, err
	}
	if validateFlags.replaceAll {
		ctx.ReplaceAll = true
	}
	return ctx, nil
}

func printResultsText(w io.Writer, results []recordResult) {
	for _, r := range results {
		label := fmt.Sprintf("record %d", r.Index)
		if r.ControlNumber != "" {
			label += fmt.Sprintf(" (001 %s)", r.ControlNumber)
		}
		if r.Valid {
			fmt.Fprintf(w, "✓ %s: valid\n", label)
			continue
		}
		fmt.Fprintf(w, "✗ %s: %d violation(s)\n", label, r.ViolationCount)
		for _, v := range r.Violations {
			fmt.Fprintf(w, "    [%s] %s (at %s)\n", v.Kind, v.Message(), strings.Join(v.Loc, "."))
		}
	}
}
