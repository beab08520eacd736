package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/internal/template"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the CloudFormation template",
		Long: `Build declares the uptime stack from the configuration file and prints the
CloudFormation template.

Examples:
    uptime build
    uptime build -o template.json
    uptime build --format yaml --environment prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, outputFormat, outputFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(opts *rootOptions, format, outputFile string, w io.Writer) error {
	result := buildTemplate(opts)
	return outputResult(result, format, outputFile, w)
}

// buildTemplate declares the stack and builds its template. Failures are
// collected in the result.
func buildTemplate(opts *rootOptions) uptime.BuildResult {
	s, err := opts.loadStack()
	if err != nil {
		return uptime.BuildResult{Success: false, Errors: []string{err.Error()}}
	}

	tmpl, err := s.Template()
	if err != nil {
		return uptime.BuildResult{Success: false, Errors: []string{err.Error()}}
	}

	resources, err := s.Resources()
	if err != nil {
		return uptime.BuildResult{Success: false, Errors: []string{err.Error()}}
	}
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}

	return uptime.BuildResult{
		Success:   true,
		Template:  *tmpl,
		Resources: names,
	}
}

func encodeTemplate(t *uptime.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(t)
	case "yaml":
		return template.ToYAML(t)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func outputResult(result uptime.BuildResult, format, outputFile string, w io.Writer) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	data, err := encodeTemplate(&result.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}
