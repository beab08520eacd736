// Package optimizer provides CloudFormation optimization suggestions.
// It inspects the properties of a built template for security, cost,
// performance and reliability improvements.
package optimizer

import (
	"fmt"
	"sort"

	uptime "github.com/lex00/uptime-aws-go"
)

// Categories accepted by Options.Category.
const (
	CategoryAll         = "all"
	CategorySecurity    = "security"
	CategoryCost        = "cost"
	CategoryPerformance = "performance"
	CategoryReliability = "reliability"
)

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions; empty means all.
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []uptime.Suggestion      `json:"suggestions"`
	Summary     uptime.SuggestionSummary `json:"summary"`
}

// Rule is one optimization check. Check returns nil when the resource
// already follows the rule.
type Rule struct {
	ID       string
	Category string
	Severity string
	Title    string
	Check    func(name string, props map[string]any) *uptime.Suggestion
}

// Optimize applies the rules of each resource type to the template.
// Suggestions are ordered by resource name, then rule ID.
func Optimize(t *uptime.Template, opts Options) (*Result, error) {
	category := opts.Category
	if category == "" {
		category = CategoryAll
	}
	switch category {
	case CategoryAll, CategorySecurity, CategoryCost, CategoryPerformance, CategoryReliability:
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}

	result := &Result{Suggestions: []uptime.Suggestion{}}

	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := t.Resources[name]
		for _, rule := range rulesByType[res.Type] {
			if category != CategoryAll && rule.Category != category {
				continue
			}
			if s := rule.Check(name, res.Properties); s != nil {
				s.Rule = rule.ID
				s.Resource = name
				s.Category = rule.Category
				s.Severity = rule.Severity
				s.Title = rule.Title
				result.Suggestions = append(result.Suggestions, *s)
			}
		}
	}

	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

// Rules returns the rules applied to a resource type.
func Rules(resourceType string) []Rule {
	return rulesByType[resourceType]
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []uptime.Suggestion) uptime.SuggestionSummary {
	summary := uptime.SuggestionSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case CategorySecurity:
			summary.Security++
		case CategoryCost:
			summary.Cost++
		case CategoryPerformance:
			summary.Performance++
		case CategoryReliability:
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}
