// Package graph renders the desired-state dependency graph in DOT and
// Mermaid formats.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	uptime "github.com/lex00/uptime-aws-go"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from declared resources.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service.
	ClusterByService bool
}

// Generate creates a dependency graph and writes it to w. Edges point from
// a resource to the resources it references.
func (g *Generator) Generate(resources []uptime.DeclaredResource, w io.Writer) error {
	graph := g.buildGraph(resources)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(resources []uptime.DeclaredResource) (string, error) {
	var sb strings.Builder
	if err := g.Generate(resources, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(resources []uptime.DeclaredResource) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	nodes := make(map[string]dot.Node, len(resources))
	if g.ClusterByService {
		g.addClusteredNodes(graph, resources, nodes)
	} else {
		for _, res := range resources {
			nodes[res.Name] = addNode(graph, res)
		}
	}

	for _, res := range resources {
		attr := make(map[string]bool, len(res.AttrDependencies))
		for _, dep := range res.AttrDependencies {
			attr[dep] = true
		}

		for _, dep := range res.Dependencies {
			to, ok := nodes[dep]
			if !ok {
				continue
			}
			e := graph.Edge(nodes[res.Name], to)
			if attr[dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

// addClusteredNodes puts services with more than one resource in a
// cluster.
func (g *Generator) addClusteredNodes(graph *dot.Graph, resources []uptime.DeclaredResource, nodes map[string]dot.Node) {
	byService := make(map[string][]uptime.DeclaredResource)
	for _, res := range resources {
		service := Service(res.Type)
		byService[service] = append(byService[service], res)
	}

	services := make([]string, 0, len(byService))
	for service := range byService {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0].Name] = addNode(graph, members[0])
			continue
		}

		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, res := range members {
			nodes[res.Name] = addNode(cluster, res)
		}
	}
}

func addNode(graph *dot.Graph, res uptime.DeclaredResource) dot.Node {
	n := graph.Node(res.Name)
	n.Label(res.Name + "\\n[" + res.Type + "]")
	return n
}

// Service extracts the service from a CloudFormation type.
// e.g., "AWS::S3::Bucket" -> "S3"
func Service(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}
