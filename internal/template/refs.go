package template

import (
	"regexp"
	"sort"
	"strings"
)

var subVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

type edges struct {
	all  map[string]bool
	attr map[string]bool
}

func collectEdges(v any) *edges {
	e := &edges{all: make(map[string]bool), attr: make(map[string]bool)}
	e.walk(v)
	return e
}

func (e *edges) names() []string {
	return sortedKeys(e.all)
}

func (e *edges) attrNames() []string {
	var out []string
	for _, name := range sortedKeys(e.attr) {
		if e.all[name] {
			out = append(out, name)
		}
	}
	return out
}

func (e *edges) walk(v any) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 && e.intrinsic(val) {
			return
		}
		for _, child := range val {
			e.walk(child)
		}
	case []any:
		for _, child := range val {
			e.walk(child)
		}
	}
}

// intrinsic records the edge for a single-key intrinsic map and reports
// whether the map was one.
func (e *edges) intrinsic(m map[string]any) bool {
	if ref, ok := m["Ref"].(string); ok {
		e.add(ref, false)
		return true
	}

	if getAtt, ok := m["Fn::GetAtt"]; ok {
		switch val := getAtt.(type) {
		case []any:
			if len(val) > 0 {
				if name, ok := val[0].(string); ok {
					e.add(name, true)
				}
			}
		case string:
			name, _, _ := strings.Cut(val, ".")
			e.add(name, true)
		}
		return true
	}

	if sub, ok := m["Fn::Sub"]; ok {
		switch val := sub.(type) {
		case string:
			e.sub(val, nil)
		case []any:
			vars := map[string]any{}
			if len(val) > 1 {
				if m, ok := val[1].(map[string]any); ok {
					vars = m
				}
			}
			for _, child := range vars {
				e.walk(child)
			}
			if len(val) > 0 {
				if s, ok := val[0].(string); ok {
					e.sub(s, vars)
				}
			}
		}
		return true
	}

	return false
}

// sub records ${Name} and ${Name.Attr} placeholders that are not
// escaped, pseudo parameters or Fn::Sub variables.
func (e *edges) sub(s string, vars map[string]any) {
	for _, match := range subVarPattern.FindAllStringSubmatch(s, -1) {
		expr := match[1]
		if strings.HasPrefix(expr, "!") {
			continue
		}
		name, _, isAttr := strings.Cut(expr, ".")
		if _, ok := vars[name]; ok {
			continue
		}
		e.add(name, isAttr)
	}
}

func (e *edges) add(name string, attr bool) {
	if name == "" || strings.Contains(name, "::") {
		return
	}
	e.all[name] = true
	if attr {
		e.attr[name] = true
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
