// Package iam provides the AWS::IAM resource types used by the uptime stack.
package iam

import (
	"github.com/lex00/uptime-aws-go/intrinsics"
)

// Role represents an AWS::IAM::Role.
//
// Ref returns the role name. GetAtt supports Arn and RoleId.
type Role struct {
	RoleName                 any                       `json:"RoleName,omitempty"`
	Description              string                    `json:"Description,omitempty"`
	AssumeRolePolicyDocument intrinsics.PolicyDocument `json:"AssumeRolePolicyDocument"`
	ManagedPolicyArns        []any                     `json:"ManagedPolicyArns,omitempty"`
	Tags                     []intrinsics.Tag          `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// RolePolicy represents an AWS::IAM::RolePolicy, an inline policy managed as
// its own resource.
type RolePolicy struct {
	PolicyName     string                    `json:"PolicyName"`
	RoleName       any                       `json:"RoleName"`
	PolicyDocument intrinsics.PolicyDocument `json:"PolicyDocument"`
}

// ResourceType returns the CloudFormation resource type.
func (r RolePolicy) ResourceType() string {
	return "AWS::IAM::RolePolicy"
}

// LambdaBasicExecutionPolicyName is the AWS managed policy that lets a
// function write its logs.
const LambdaBasicExecutionPolicyName = "service-role/AWSLambdaBasicExecutionRole"

// ManagedPolicyArn returns the ARN of an AWS managed policy in the partition
// of the stack.
func ManagedPolicyArn(name string) intrinsics.Join {
	return intrinsics.Join{
		Delimiter: "",
		Values:    []any{"arn:", intrinsics.AWS_PARTITION, ":iam::aws:policy/" + name},
	}
}
