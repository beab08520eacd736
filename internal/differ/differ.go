// Package differ compares two desired states of the uptime stack.
//
// CloudFormation computes the real change set against the account. The diff
// here is the operator preview: which logical IDs appear, disappear or
// change between a previous template and the current declaration.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	uptime "github.com/lex00/uptime-aws-go"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    uptime.TemplateDiff
	Summary uptime.DiffSummary
}

// Empty reports whether the templates are equivalent.
func (r *Result) Empty() bool {
	return r.Summary.Total == 0
}

// Compare compares the previous template with the current one.
func Compare(previous, current *uptime.Template, opts Options) (*Result, error) {
	prev, err := normalize(previous)
	if err != nil {
		return nil, fmt.Errorf("normalizing previous template: %w", err)
	}
	cur, err := normalize(current)
	if err != nil {
		return nil, fmt.Errorf("normalizing current template: %w", err)
	}

	result := &Result{}

	for name, def := range cur.Resources {
		if _, exists := prev.Resources[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, uptime.DiffEntry{Resource: name, Type: def.Type})
		}
	}

	for name, def := range prev.Resources {
		def2, exists := cur.Resources[name]
		if !exists {
			result.Diff.Removed = append(result.Diff.Removed, uptime.DiffEntry{Resource: name, Type: def.Type})
			continue
		}
		if changes := compareResources(def, def2, opts); len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, uptime.DiffEntry{
				Resource: name,
				Type:     def.Type,
				Changes:  changes,
			})
		}
	}

	result.Diff.Outputs = compareOutputs(prev.Outputs, cur.Outputs, opts)

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = uptime.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
		Outputs:  len(result.Diff.Outputs),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified + result.Summary.Outputs

	return result, nil
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*uptime.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes a JSON or YAML template.
func ParseTemplate(data []byte) (*uptime.Template, error) {
	var template uptime.Template
	if err := json.Unmarshal(data, &template); err != nil {
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}
	return &template, nil
}

// normalize round-trips a template through JSON so YAML integers, typed
// intrinsics and decoded maps compare equal.
func normalize(t *uptime.Template) (*uptime.Template, error) {
	if t == nil {
		return &uptime.Template{}, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var out uptime.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func compareResources(def1, def2 uptime.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !reflect.DeepEqual(sortedCopy(def1.DependsOn), sortedCopy(def2.DependsOn)) {
		changes = append(changes, "DependsOn changed")
	}

	return changes
}

// compareProperties reports changed leaves by dotted path. Nested maps are
// descended; any other differing value is reported at its own path.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := join(prefix, key)

		val1, exists := props1[key]
		if !exists {
			changes = append(changes, path+" added")
			continue
		}

		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}

		if !deepEqual(val1, val2, opts) {
			changes = append(changes, path+" modified")
		}
	}

	for key := range props1 {
		if _, exists := props2[key]; !exists {
			changes = append(changes, join(prefix, key)+" removed")
		}
	}

	sort.Strings(changes)
	return changes
}

func compareOutputs(out1, out2 map[string]uptime.Output, opts Options) []string {
	var changes []string
	for name, o2 := range out2 {
		o1, exists := out1[name]
		switch {
		case !exists:
			changes = append(changes, name+" added")
		case !deepEqual(o1.Value, o2.Value, opts) || o1.Description != o2.Description:
			changes = append(changes, name+" modified")
		}
	}
	for name := range out1 {
		if _, exists := out2[name]; !exists {
			changes = append(changes, name+" removed")
		}
	}
	sort.Strings(changes)
	return changes
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// isIntrinsic reports a single-key map whose key is Ref or Fn::*. Such
// maps are compared whole.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || len(k) > 4 && k[:4] == "Fn::"
	}
	return false
}

func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = unordered(a)
		b = unordered(b)
	}
	return reflect.DeepEqual(a, b)
}

// unordered sorts every slice by the JSON encoding of its elements.
func unordered(v any) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, elem := range val {
			result[i] = unordered(elem)
		}
		sort.SliceStable(result, func(i, j int) bool {
			return encode(result[i]) < encode(result[j])
		})
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, elem := range val {
			result[k] = unordered(elem)
		}
		return result
	default:
		return v
	}
}

func encode(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func sortEntries(entries []uptime.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
