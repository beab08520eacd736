package template

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/intrinsics"
	"github.com/lex00/uptime-aws-go/resources/iam"
	"github.com/lex00/uptime-aws-go/resources/lambda"
	"github.com/lex00/uptime-aws-go/resources/s3"
)

// node is a minimal resource whose Target carries arbitrary references.
type node struct {
	Target any `json:"Target"`
}

func (node) ResourceType() string { return "Test::Node" }

func names(resources []uptime.DeclaredResource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name
	}
	return out
}

func TestBuilder_Build_SimpleResource(t *testing.T) {
	b := NewBuilder("test stack")
	b.Add("SharedBucket", &s3.Bucket{AccessControl: "Private"})

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Equal(t, "test stack", tmpl.Description)
	require.Contains(t, tmpl.Resources, "SharedBucket")
	assert.Equal(t, "AWS::S3::Bucket", tmpl.Resources["SharedBucket"].Type)
	assert.Equal(t, "Private", tmpl.Resources["SharedBucket"].Properties["AccessControl"])
	assert.Nil(t, tmpl.Outputs)
}

func TestBuilder_Resources_DependencyOrder(t *testing.T) {
	b := NewBuilder("")
	// Declared out of order on purpose.
	fn := b.Add("UptimeFunction", &lambda.Function{
		Role:    uptime.AttrRef{Resource: "UptimeRole", Attribute: "Arn"},
		Handler: "bootstrap",
		Environment: &lambda.Function_Environment{
			Variables: map[string]any{"BUCKET_NAME": intrinsics.Ref{LogicalName: "SharedBucket"}},
		},
	})
	b.Add("UptimeRole", &iam.Role{Description: "role"})
	b.Add("SharedBucket", &s3.Bucket{})
	b.Add("UptimeFunctionUrl", &lambda.Url{TargetFunctionArn: fn.Attr("Arn"), AuthType: lambda.AuthTypeNone})

	resources, err := b.Resources()
	require.NoError(t, err)

	assert.Equal(t, []string{"SharedBucket", "UptimeRole", "UptimeFunction", "UptimeFunctionUrl"}, names(resources))
	assert.Equal(t, []string{"SharedBucket", "UptimeRole"}, resources[2].Dependencies)
	assert.Equal(t, []string{"UptimeRole"}, resources[2].AttrDependencies)
	assert.Equal(t, []string{"UptimeFunction"}, resources[3].AttrDependencies)
}

func TestBuilder_Resources_LexicalTieBreak(t *testing.T) {
	b := NewBuilder("")
	b.Add("Charlie", &node{})
	b.Add("Alpha", &node{})
	b.Add("Bravo", &node{})

	resources, err := b.Resources()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names(resources))
}

func TestBuilder_SubReferences(t *testing.T) {
	tests := []struct {
		name     string
		target   any
		expected []string
	}{
		{
			name:     "plain placeholder",
			target:   intrinsics.Sub{String: "arn:aws:s3:::${Bucket}/*"},
			expected: []string{"Bucket"},
		},
		{
			name:     "attribute placeholder",
			target:   intrinsics.Sub{String: "${Bucket.Arn}/*"},
			expected: []string{"Bucket"},
		},
		{
			name:     "pseudo parameter skipped",
			target:   intrinsics.Sub{String: "${AWS::Region}-${Bucket}"},
			expected: []string{"Bucket"},
		},
		{
			name:     "escaped placeholder skipped",
			target:   intrinsics.Sub{String: "${!Literal}"},
			expected: nil,
		},
		{
			name: "variables walked, variable names skipped",
			target: intrinsics.SubWithMap{
				String:    "${Name}-${Bucket}",
				Variables: map[string]any{"Name": intrinsics.Ref{LogicalName: "Other"}},
			},
			expected: []string{"Bucket", "Other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("")
			b.Add("Bucket", &node{})
			b.Add("Other", &node{})
			b.Add("Subject", &node{Target: tt.target})

			resources, err := b.Resources()
			require.NoError(t, err)

			var subject uptime.DeclaredResource
			for _, r := range resources {
				if r.Name == "Subject" {
					subject = r
				}
			}
			assert.Equal(t, tt.expected, subject.Dependencies)
		})
	}
}

func TestBuilder_PseudoRefIgnored(t *testing.T) {
	b := NewBuilder("")
	b.Add("Subject", &node{Target: intrinsics.AWS_REGION})

	resources, err := b.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Empty(t, resources[0].Dependencies)
}

func TestBuilder_CircularDependency(t *testing.T) {
	b := NewBuilder("")
	b.Add("A", &node{Target: intrinsics.Ref{LogicalName: "B"}})
	b.Add("B", &node{Target: intrinsics.Ref{LogicalName: "A"}})

	_, err := b.Resources()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircularDependency))
	assert.Contains(t, err.Error(), "A → B → A")

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrCircularDependency)
}

func TestBuilder_SelfReferenceIsCycle(t *testing.T) {
	b := NewBuilder("")
	b.Add("A", &node{Target: uptime.AttrRef{Resource: "A", Attribute: "Arn"}})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.Contains(t, err.Error(), "A → A")

	_, err = b.Resources()
	assert.ErrorIs(t, err, ErrCircularDependency)
}

func TestBuilder_UndeclaredReference(t *testing.T) {
	b := NewBuilder("")
	b.Add("A", &node{Target: intrinsics.Ref{LogicalName: "Missing"}})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndeclaredReference)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestBuilder_OutputReferencesChecked(t *testing.T) {
	b := NewBuilder("")
	b.AddOutput("Url", "", uptime.AttrRef{Resource: "Missing", Attribute: "FunctionUrl"})

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrUndeclaredReference)
}

func TestBuilder_InvalidLogicalIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"hyphen", "my-bucket"},
		{"underscore", "my_bucket"},
		{"empty", ""},
		{"space", "My Bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("")
			b.Add(tt.id, &node{})
			_, err := b.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid logical ID")
		})
	}
}

func TestBuilder_DuplicateLogicalID(t *testing.T) {
	b := NewBuilder("")
	b.Add("SharedBucket", &s3.Bucket{})
	b.Add("SharedBucket", &s3.Bucket{})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate logical ID "SharedBucket"`)
}

func TestBuilder_Outputs(t *testing.T) {
	b := NewBuilder("")
	url := b.Add("UptimeFunctionUrl", &lambda.Url{AuthType: lambda.AuthTypeNone})
	b.AddOutput("FunctionUrl", "Public URL", url.Attr("FunctionUrl"))

	tmpl, err := b.Build()
	require.NoError(t, err)

	require.Contains(t, tmpl.Outputs, "FunctionUrl")
	out := tmpl.Outputs["FunctionUrl"]
	assert.Equal(t, "Public URL", out.Description)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"UptimeFunctionUrl", "FunctionUrl"}}, out.Value)
}

func TestHandle(t *testing.T) {
	h := NewBuilder("").Add("SharedBucket", &s3.Bucket{})

	assert.Equal(t, "SharedBucket", h.Name())
	assert.Equal(t, intrinsics.Ref{LogicalName: "SharedBucket"}, h.Ref())
	assert.Equal(t, uptime.AttrRef{Resource: "SharedBucket", Attribute: "Arn"}, h.Attr("Arn"))
}

func TestToJSON(t *testing.T) {
	b := NewBuilder("")
	bucket := b.Add("SharedBucket", &s3.Bucket{})
	b.Add("UptimeFunction", &lambda.Function{
		Environment: &lambda.Function_Environment{
			Variables: map[string]any{"BUCKET_NAME": bucket.Ref()},
		},
	})

	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToJSON(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	resources := parsed["Resources"].(map[string]any)
	fn := resources["UptimeFunction"].(map[string]any)
	props := fn["Properties"].(map[string]any)
	env := props["Environment"].(map[string]any)
	vars := env["Variables"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "SharedBucket"}, vars["BUCKET_NAME"])
	assert.Contains(t, string(data), "\n  \"AWSTemplateFormatVersion\"")
}

func TestToJSON_ResourcesInLogicalIDOrder(t *testing.T) {
	b := NewBuilder("")
	b.Add("Alpha", &node{Target: intrinsics.Ref{LogicalName: "Zulu"}})
	b.Add("Zulu", &node{})

	resources, err := b.Resources()
	require.NoError(t, err)
	assert.Equal(t, []string{"Zulu", "Alpha"}, names(resources))

	tmpl, err := b.Build()
	require.NoError(t, err)
	data, err := ToJSON(tmpl)
	require.NoError(t, err)

	out := string(data)
	alpha := strings.Index(out, `"Alpha":`)
	zulu := strings.Index(out, `"Zulu":`)
	require.True(t, alpha >= 0 && zulu >= 0)
	assert.Less(t, alpha, zulu)
}

func TestToYAML(t *testing.T) {
	b := NewBuilder("yaml")
	b.Add("SharedBucket", &s3.Bucket{AccessControl: "Private"})

	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.Equal(t, "yaml", parsed["Description"])
}
