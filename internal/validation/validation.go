// Package validation lints built templates with cfn-lint-go.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/internal/schema"
	"github.com/lex00/uptime-aws-go/internal/template"
)

// Result contains the matches of one lint run, bucketed by level.
type Result struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r Result) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// AddSchema folds an offline schema check into the result. Schema errors
// fail the result.
func (r *Result) AddSchema(s *schema.Result) {
	for _, e := range s.Errors {
		r.Errors = append(r.Errors, "[schema] "+e.Error())
	}
	for _, w := range s.Warnings {
		r.Warnings = append(r.Warnings, "[schema] "+w.Error())
	}
	r.Passed = r.Passed && s.Valid
}

// Lint writes t to a temporary file and lints it.
func Lint(t *uptime.Template) (*Result, error) {
	data, err := template.ToJSON(t)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}

	dir, err := os.MkdirTemp("", "uptime-lint-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	return LintFile(path)
}

// LintFile lints the template at path. A template passes when it has no
// errors; warnings are acceptable.
func LintFile(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template file not found: %w", err)
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(path)
	if err != nil {
		return nil, fmt.Errorf("linting %s: %w", path, err)
	}

	return Categorize(matches), nil
}

// Categorize buckets matches by level.
func Categorize(matches []lint.Match) *Result {
	result := &Result{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	result.Passed = len(result.Errors) == 0
	return result
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	if len(match.Location.Path) == 0 {
		return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
	}

	parts := make([]string, len(match.Location.Path))
	for i, p := range match.Location.Path {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, strings.Join(parts, "/"))
}
