package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/graph"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat     string
		clusterByService bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.
GetAtt references are drawn in blue.

The output can be rendered with Graphviz:
    uptime graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    uptime graph -f mermaid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, outputFormat, clusterByService, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&clusterByService, "cluster", false, "Group resources by AWS service")

	return cmd
}

func runGraph(opts *rootOptions, format string, cluster bool, w io.Writer) error {
	switch graph.Format(format) {
	case graph.FormatDOT, graph.FormatMermaid:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := opts.loadStack()
	if err != nil {
		return err
	}

	resources, err := s.Resources()
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:           graph.Format(format),
		ClusterByService: cluster,
	}
	if err := gen.Generate(resources, w); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
