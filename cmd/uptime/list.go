package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	uptime "github.com/lex00/uptime-aws-go"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List declared resources in dependency order",
		Long: `List displays every resource of the stack after the resources it references.

Examples:
    uptime list
    uptime list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, outputFormat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(opts *rootOptions, format string, w io.Writer) error {
	s, err := opts.loadStack()
	if err != nil {
		return err
	}

	resources, err := s.Resources()
	if err != nil {
		return err
	}

	listResult := uptime.ListResult{
		Resources: make([]uptime.ListResource, 0, len(resources)),
	}
	for _, res := range resources {
		listResult.Resources = append(listResult.Resources, uptime.ListResource{
			Name:      res.Name,
			Type:      res.Type,
			DependsOn: res.Dependencies,
		})
	}

	return outputListResult(listResult, format, w)
}

func outputListResult(result uptime.ListResult, format string, w io.Writer) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Declared resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			if len(res.DependsOn) == 0 {
				fmt.Fprintf(w, "  %s: %s\n", res.Name, res.Type)
				continue
			}
			fmt.Fprintf(w, "  %s: %s <- %s\n", res.Name, res.Type, strings.Join(res.DependsOn, ", "))
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
