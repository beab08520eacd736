// Package lambda provides the AWS::Lambda resource types used by the uptime stack.
package lambda

import (
	"github.com/lex00/uptime-aws-go/intrinsics"
)

// Function represents an AWS::Lambda::Function.
//
// Ref returns the function name. GetAtt supports Arn.
type Function struct {
	FunctionName  any                   `json:"FunctionName,omitempty"`
	Description   string                `json:"Description,omitempty"`
	Code          Function_Code         `json:"Code"`
	Role          any                   `json:"Role"`
	Handler       string                `json:"Handler,omitempty"`
	Runtime       string                `json:"Runtime,omitempty"`
	Architectures []string              `json:"Architectures,omitempty"`
	MemorySize    int                   `json:"MemorySize,omitempty"`
	Timeout       int                   `json:"Timeout,omitempty"`
	Environment   *Function_Environment `json:"Environment,omitempty"`
	Tags          []intrinsics.Tag      `json:"Tags,omitempty"`
}

// Function_Code locates the deployment package.
type Function_Code struct {
	S3Bucket any    `json:"S3Bucket,omitempty"`
	S3Key    any    `json:"S3Key,omitempty"`
	ZipFile  string `json:"ZipFile,omitempty"`
}

// Function_Environment holds the function's environment variables.
type Function_Environment struct {
	Variables map[string]any `json:"Variables,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Function) ResourceType() string {
	return "AWS::Lambda::Function"
}
