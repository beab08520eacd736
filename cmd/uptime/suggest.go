package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/optimizer"
)

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		category     string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest security, cost, performance and reliability improvements",
		Long: `Suggest builds the template and reports improvements for its resources.
Suggestions are advisory; the command never fails because of them.

Examples:
    uptime suggest
    uptime suggest --category security -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(opts, category, outputFormat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&category, "category", optimizer.CategoryAll, "Category: all, security, cost, performance or reliability")

	return cmd
}

func runSuggest(opts *rootOptions, category, format string, w io.Writer) error {
	s, err := opts.loadStack()
	if err != nil {
		return err
	}
	tmpl, err := s.Template()
	if err != nil {
		return err
	}

	result, err := optimizer.Optimize(tmpl, optimizer.Options{Category: category})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		if len(result.Suggestions) == 0 {
			fmt.Fprintln(w, "No suggestions.")
			return nil
		}
		for _, sg := range result.Suggestions {
			fmt.Fprintf(w, "[%s] %s %s: %s\n", sg.Severity, sg.Rule, sg.Resource, sg.Title)
			fmt.Fprintf(w, "    %s\n", sg.Fix)
		}
		sum := result.Summary
		fmt.Fprintf(w, "\n%d suggestions (%d security, %d cost, %d performance, %d reliability)\n",
			sum.Total, sum.Security, sum.Cost, sum.Performance, sum.Reliability)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
