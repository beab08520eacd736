package uptime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "role arn",
			ref:      AttrRef{Resource: "UptimeRole", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["UptimeRole","Arn"]}`,
		},
		{
			name:     "bucket arn",
			ref:      AttrRef{Resource: "SharedBucket", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["SharedBucket","Arn"]}`,
		},
		{
			name:     "function url",
			ref:      AttrRef{Resource: "UptimeFunctionUrl", Attribute: "FunctionUrl"},
			expected: `{"Fn::GetAtt":["UptimeFunctionUrl","FunctionUrl"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	assert.True(t, AttrRef{}.IsZero())
	assert.False(t, AttrRef{Resource: "UptimeRole"}.IsZero())
	assert.False(t, AttrRef{Attribute: "Arn"}.IsZero())
	assert.False(t, AttrRef{Resource: "UptimeRole", Attribute: "Arn"}.IsZero())
}

func TestTemplate_MarshalJSON(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]ResourceDef{
			"SharedBucket": {
				Type:       "AWS::S3::Bucket",
				Properties: map[string]any{"AccessControl": "Private"},
			},
		},
		Outputs: map[string]Output{
			"FunctionUrl": {Value: AttrRef{Resource: "UptimeFunctionUrl", Attribute: "FunctionUrl"}},
		},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"AWSTemplateFormatVersion": "2010-09-09",
		"Resources": {
			"SharedBucket": {"Type": "AWS::S3::Bucket", "Properties": {"AccessControl": "Private"}}
		},
		"Outputs": {
			"FunctionUrl": {"Value": {"Fn::GetAtt": ["UptimeFunctionUrl", "FunctionUrl"]}}
		}
	}`, string(data))
}

func TestDeclaredResource_OmitsEmptyDependencies(t *testing.T) {
	data, err := json.Marshal(DeclaredResource{Name: "SharedBucket", Type: "AWS::S3::Bucket"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"SharedBucket","type":"AWS::S3::Bucket"}`, string(data))
}

func TestSchemaError_Error(t *testing.T) {
	err := SchemaError{Resource: "UptimeFunction", Property: "Role", Message: "missing required property: Role"}
	assert.Equal(t, "UptimeFunction.Role: missing required property: Role", err.Error())
}
