package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/schema"
	"github.com/lex00/uptime-aws-go/internal/validation"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint the generated template with cfn-lint",
		Long: `Validate builds the template, checks it against the offline resource schemas
and runs cfn-lint-go over it. The command fails when any error-level match is
found; warnings are reported only.

Examples:
    uptime validate
    uptime validate --format json
    uptime validate --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, outputFormat, strict, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "Warn about properties missing from the resource schemas")

	return cmd
}

func runValidate(opts *rootOptions, format string, strict bool, w io.Writer) error {
	s, err := opts.loadStack()
	if err != nil {
		return err
	}
	tmpl, err := s.Template()
	if err != nil {
		return err
	}

	result, err := validation.Lint(tmpl)
	if err != nil {
		return err
	}
	result.AddSchema(schema.ValidateTemplate(tmpl, schema.Options{Strict: strict}))

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		for _, e := range result.Errors {
			fmt.Fprintf(w, "error: %s\n", e)
		}
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
		for _, info := range result.Informational {
			fmt.Fprintf(w, "info: %s\n", info)
		}
		if result.TotalIssues() == 0 {
			fmt.Fprintln(w, "Template is valid.")
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Passed {
		return fmt.Errorf("validation failed: %d errors", len(result.Errors))
	}
	return nil
}
