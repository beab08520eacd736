// Package schema provides offline CloudFormation schema validation.
// It checks the resources of a template against the schemas of the resource
// types the uptime stack declares.
package schema

import (
	"fmt"
	"strings"

	uptime "github.com/lex00/uptime-aws-go"
)

// Options configures schema validation.
type Options struct {
	// Strict reports properties missing from the schema as warnings
	Strict bool
}

// Result contains schema validation results.
type Result struct {
	Valid    bool                 `json:"valid"`
	Errors   []uptime.SchemaError `json:"errors,omitempty"`
	Warnings []uptime.SchemaError `json:"warnings,omitempty"`
}

// ResourceSchema defines the schema for a resource type.
type ResourceSchema struct {
	Required   []string
	Properties map[string]PropertySchema
}

// PropertySchema defines the schema for a property.
type PropertySchema struct {
	Type          string
	AllowedValues []string
}

// ValidateTemplate validates a CloudFormation template against known schemas.
// Resources are checked in name order so the report is stable.
func ValidateTemplate(t *uptime.Template, opts Options) *Result {
	result := &Result{Valid: true}

	for _, name := range sortedNames(t.Resources) {
		errs, warnings := validateResource(name, t.Resources[name], opts)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Lookup returns the schema of a resource type.
func Lookup(resourceType string) (ResourceSchema, bool) {
	s, ok := resourceSchemas[resourceType]
	return s, ok
}

func validateResource(name string, resource uptime.ResourceDef, opts Options) ([]uptime.SchemaError, []uptime.SchemaError) {
	var errs, warnings []uptime.SchemaError

	if !isValidResourceType(resource.Type) {
		errs = append(errs, uptime.SchemaError{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("invalid resource type format: %s", resource.Type),
		})
		return errs, warnings
	}

	schema, ok := resourceSchemas[resource.Type]
	if !ok {
		warnings = append(warnings, uptime.SchemaError{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("unknown resource type: %s (schema not available for validation)", resource.Type),
		})
		return errs, warnings
	}

	for _, required := range schema.Required {
		if _, exists := resource.Properties[required]; !exists {
			errs = append(errs, uptime.SchemaError{
				Resource: name,
				Property: required,
				Message:  fmt.Sprintf("missing required property: %s", required),
			})
		}
	}

	for _, propName := range sortedNames(resource.Properties) {
		propSchema, ok := schema.Properties[propName]
		if !ok {
			if opts.Strict {
				warnings = append(warnings, uptime.SchemaError{
					Resource: name,
					Property: propName,
					Message:  fmt.Sprintf("unknown property: %s", propName),
				})
			}
			continue
		}
		errs = append(errs, validateProperty(name, propName, resource.Properties[propName], propSchema)...)
	}

	return errs, warnings
}

// isValidResourceType checks the AWS::Service::Resource or Custom::* form.
func isValidResourceType(resourceType string) bool {
	if strings.HasPrefix(resourceType, "Custom::") {
		return true
	}
	parts := strings.Split(resourceType, "::")
	if len(parts) != 3 {
		return false
	}
	return parts[0] == "AWS"
}

func validateProperty(resource, property string, value any, schema PropertySchema) []uptime.SchemaError {
	if isIntrinsic(value) {
		return nil
	}

	var errs []uptime.SchemaError
	if !isValidType(value, schema.Type) {
		errs = append(errs, uptime.SchemaError{
			Resource: resource,
			Property: property,
			Message:  fmt.Sprintf("expected type %s", schema.Type),
		})
	}

	if len(schema.AllowedValues) > 0 {
		if strVal, ok := value.(string); ok && !contains(schema.AllowedValues, strVal) {
			errs = append(errs, uptime.SchemaError{
				Resource: resource,
				Property: property,
				Message:  fmt.Sprintf("value %q not in allowed values: %v", strVal, schema.AllowedValues),
			})
		}
	}

	return errs
}

// isIntrinsic reports whether value is a Ref or Fn:: call, which resolves at
// deploy time and is never type checked.
func isIntrinsic(value any) bool {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	for key := range m {
		return key == "Ref" || strings.HasPrefix(key, "Fn::")
	}
	return false
}

// isValidType checks if a normalized JSON value matches the expected type.
func isValidType(value any, expectedType string) bool {
	switch expectedType {
	case "String":
		_, ok := value.(string)
		return ok
	case "Integer":
		f, ok := value.(float64)
		return ok && f == float64(int64(f))
	case "Number":
		_, ok := value.(float64)
		return ok
	case "Boolean":
		_, ok := value.(bool)
		return ok
	case "List":
		_, ok := value.([]any)
		return ok
	case "Map":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func contains(values []string, v string) bool {
	for _, allowed := range values {
		if allowed == v {
			return true
		}
	}
	return false
}
