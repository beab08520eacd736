// Package s3 provides the AWS::S3 resource types used by the uptime stack.
package s3

import (
	"github.com/lex00/uptime-aws-go/intrinsics"
)

// Bucket represents an AWS::S3::Bucket.
//
// Ref returns the bucket name. GetAtt supports Arn, DomainName and
// RegionalDomainName.
type Bucket struct {
	// BucketName is optional; CloudFormation generates one when empty.
	BucketName any `json:"BucketName,omitempty"`
	// AccessControl is a canned ACL such as "Private".
	AccessControl string           `json:"AccessControl,omitempty"`
	Tags          []intrinsics.Tag `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Bucket) ResourceType() string {
	return "AWS::S3::Bucket"
}
