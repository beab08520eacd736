// Package intrinsics provides CloudFormation intrinsic functions.
// This file contains IAM policy document types.
package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument represents an IAM policy document.
//
//	var TrustPolicy = PolicyDocument{
//	    Version:   PolicyVersion,
//	    Statement: []PolicyStatement{AssumeRoleStatement},
//	}
type PolicyDocument struct {
	Version   string            `json:"Version,omitempty"`
	Statement []PolicyStatement `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version.
func NewPolicyDocument(statements ...PolicyStatement) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
//
// Resource may hold literals or intrinsics such as a bucket Arn AttrRef.
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// Allow returns a statement with Effect="Allow" for the given actions.
func Allow(actions ...string) PolicyStatement {
	return PolicyStatement{Effect: "Allow", Action: actions}
}

// ServicePrincipal represents a service principal (e.g., lambda.amazonaws.com).
// Serializes to {"Service": ...} format.
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"Service": p[0]})
	}
	return json.Marshal(map[string]any{"Service": []any(p)})
}

// AllPrincipal represents the wildcard principal "*".
const AllPrincipal = "*"
