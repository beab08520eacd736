package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/differ"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <previous-template>",
		Short: "Compare the declared stack with a previous template",
		Long: `Diff builds the current template and reports the resources and outputs that
were added, removed or modified since the previous template (JSON or YAML).

Examples:
    uptime diff deployed.json
    uptime diff deployed.yaml --ignore-order -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], outputFormat, ignoreOrder, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")

	return cmd
}

func runDiff(opts *rootOptions, previousPath, format string, ignoreOrder bool, w io.Writer) error {
	previous, err := differ.LoadTemplate(previousPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", previousPath, err)
	}

	s, err := opts.loadStack()
	if err != nil {
		return err
	}
	current, err := s.Template()
	if err != nil {
		return err
	}

	result, err := differ.Compare(previous, current, differ.Options{IgnoreOrder: ignoreOrder})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result.Diff, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		printDiff(result, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

func printDiff(result *differ.Result, w io.Writer) {
	if result.Empty() {
		fmt.Fprintln(w, "No changes.")
		return
	}

	for _, e := range result.Diff.Added {
		fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range result.Diff.Removed {
		fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range result.Diff.Modified {
		fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
		for _, c := range e.Changes {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
	for _, o := range result.Diff.Outputs {
		fmt.Fprintf(w, "  output %s\n", o)
	}

	s := result.Summary
	fmt.Fprintf(w, "\n%d added, %d removed, %d modified, %d output changes\n", s.Added, s.Removed, s.Modified, s.Outputs)
}
