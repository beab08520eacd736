// Package template builds CloudFormation templates from declared resources.
//
// Dependency edges are not declared by hand. They are read from the
// serialized properties: every Ref, Fn::GetAtt and Fn::Sub reference to
// another logical ID is an edge, and CloudFormation uses the same
// references to order creation.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/intrinsics"
	"github.com/lex00/uptime-aws-go/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

var (
	// ErrCircularDependency is returned when resource references form a cycle.
	ErrCircularDependency = errors.New("circular dependency detected")
	// ErrUndeclaredReference is returned for a reference to an unknown logical ID.
	ErrUndeclaredReference = errors.New("reference to undeclared resource")
)

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Handle references a declared resource.
type Handle struct {
	name string
}

// Name returns the logical ID.
func (h Handle) Name() string {
	return h.name
}

// Ref returns {"Ref": logicalID}.
func (h Handle) Ref() intrinsics.Ref {
	return intrinsics.Ref{LogicalName: h.name}
}

// Attr returns {"Fn::GetAtt": [logicalID, attribute]}.
func (h Handle) Attr(attribute string) uptime.AttrRef {
	return uptime.AttrRef{Resource: h.name, Attribute: attribute}
}

// Builder collects resource and output declarations.
type Builder struct {
	description string
	order       []string
	resources   map[string]uptime.Resource
	outputs     map[string]uptime.Output
	errs        []error
}

// NewBuilder creates an empty builder. description becomes the template
// Description.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]uptime.Resource),
		outputs:     make(map[string]uptime.Output),
	}
}

// Add declares a resource under a logical ID. Invalid or duplicate IDs are
// reported by Build.
func (b *Builder) Add(name string, r uptime.Resource) Handle {
	switch {
	case !logicalIDPattern.MatchString(name):
		b.errs = append(b.errs, fmt.Errorf("invalid logical ID %q: must be alphanumeric", name))
	case b.resources[name] != nil:
		b.errs = append(b.errs, fmt.Errorf("duplicate logical ID %q", name))
	default:
		b.order = append(b.order, name)
		b.resources[name] = r
	}
	return Handle{name: name}
}

// AddOutput declares a stack output.
func (b *Builder) AddOutput(name, description string, value any) {
	if !logicalIDPattern.MatchString(name) {
		b.errs = append(b.errs, fmt.Errorf("invalid output name %q: must be alphanumeric", name))
		return
	}
	if _, exists := b.outputs[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate output %q", name))
		return
	}
	b.outputs[name] = uptime.Output{Description: description, Value: value}
}

// resolved is a serialized resource with its outgoing edges.
type resolved struct {
	node  uptime.DeclaredResource
	props map[string]any
}

func (b *Builder) resolve() (map[string]resolved, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	out := make(map[string]resolved, len(b.resources))
	var errs []error

	for _, name := range b.order {
		res := b.resources[name]
		props, err := serialize.Properties(res)
		if err != nil {
			errs = append(errs, fmt.Errorf("serializing %s: %w", name, err))
			continue
		}

		e := collectEdges(props)
		for _, dep := range e.names() {
			if _, ok := b.resources[dep]; !ok {
				errs = append(errs, fmt.Errorf("%s: %w %q", name, ErrUndeclaredReference, dep))
			}
		}
		if e.all[name] {
			errs = append(errs, fmt.Errorf("%w: %s → %s", ErrCircularDependency, name, name))
			continue
		}

		out[name] = resolved{
			node: uptime.DeclaredResource{
				Name:             name,
				Type:             res.ResourceType(),
				Dependencies:     e.names(),
				AttrDependencies: e.attrNames(),
			},
			props: props,
		}
	}

	for name, o := range b.outputs {
		v, err := normalizeValue(o.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("serializing output %s: %w", name, err))
			continue
		}
		for _, dep := range collectEdges(v).names() {
			if _, ok := b.resources[dep]; !ok {
				errs = append(errs, fmt.Errorf("output %s: %w %q", name, ErrUndeclaredReference, dep))
			}
		}
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Resources returns the declared resources in dependency order: every
// resource appears after the resources it references.
func (b *Builder) Resources() ([]uptime.DeclaredResource, error) {
	nodes, err := b.resolve()
	if err != nil {
		return nil, err
	}

	order, err := topologicalSort(nodes)
	if err != nil {
		return nil, err
	}

	result := make([]uptime.DeclaredResource, len(order))
	for i, name := range order {
		result[i] = nodes[name].node
	}
	return result, nil
}

// Build constructs the CloudFormation template. It fails if the references
// form a cycle. Template.Resources is a map, so the JSON and YAML encoders
// emit resources in logical-ID order; Resources reports dependency order.
func (b *Builder) Build() (*uptime.Template, error) {
	nodes, err := b.resolve()
	if err != nil {
		return nil, err
	}
	if _, err := topologicalSort(nodes); err != nil {
		return nil, err
	}

	tmpl := &uptime.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]uptime.ResourceDef, len(nodes)),
	}

	for name, n := range nodes {
		tmpl.Resources[name] = uptime.ResourceDef{
			Type:       n.node.Type,
			Properties: n.props,
		}
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]uptime.Output, len(b.outputs))
		for name, o := range b.outputs {
			v, err := normalizeValue(o.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			o.Value = v
			tmpl.Outputs[name] = o
		}
	}

	return tmpl, nil
}

func normalizeValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// topologicalSort returns resource names in dependency order using Kahn's
// algorithm with a lexical tie-break.
func topologicalSort(nodes map[string]resolved) ([]string, error) {
	dependents := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))

	for name, n := range nodes {
		inDegree[name] += 0
		for _, dep := range n.node.Dependencies {
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range dependents[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil, detectCycle(nodes)
	}
	return result, nil
}

// detectCycle finds one cycle and reports it as A → B → A.
func detectCycle(nodes map[string]resolved) error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		for _, dep := range nodes[name].node.Dependencies {
			if onPath[dep] {
				for i, p := range path {
					if p == dep {
						cycle = append(append([]string{}, path[i:]...), dep)
						return true
					}
				}
			}
			if !visited[dep] && visit(dep) {
				return true
			}
		}

		path = path[:len(path)-1]
		onPath[name] = false
		return false
	}

	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] && visit(name) {
			return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(cycle, " → "))
		}
	}
	return ErrCircularDependency
}

// ToJSON serializes the template to JSON.
func ToJSON(t *uptime.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *uptime.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
