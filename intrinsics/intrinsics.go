// Package intrinsics provides the CloudFormation intrinsic functions used by
// the uptime stack.
//
// The core types are re-exported from cloudformation-schema-go:
//
//	Ref{LogicalName: "SharedBucket"}            → {"Ref": "SharedBucket"}
//	Join{Delimiter: "", Values: []any{"a", b}}  → {"Fn::Join": ["", ["a", ...]]}
//	Select{Index: 2, List: Split{...}}          → {"Fn::Select": [2, {"Fn::Split": ...}]}
//
// Fn::GetAtt is written with uptime.AttrRef, which the template builder
// reads as an attribute edge.
//
// Pseudo-parameters: AWS_PARTITION, AWS_REGION.
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Json is a shorthand for map[string]any.
type Json = map[string]any

// List creates a typed slice from the given items.
//
//	AllowOrigins: List("*"),
func List[T any](items ...T) []T {
	return items
}

// Any creates a []any slice from the given items.
// Use for fields typed as []any that mix literals and intrinsics.
//
//	Resource: Any(BucketArn, Join{...}),
func Any(items ...any) []any {
	return items
}
