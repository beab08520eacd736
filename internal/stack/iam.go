package stack

import (
	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/internal/template"
	"github.com/lex00/uptime-aws-go/intrinsics"
	"github.com/lex00/uptime-aws-go/resources/iam"
)

// LambdaTrustPolicy lets the Lambda service assume the role.
var LambdaTrustPolicy = intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
	Effect:    "Allow",
	Principal: intrinsics.ServicePrincipal{"lambda.amazonaws.com"},
	Action:    "sts:AssumeRole",
})

// NewRole declares the execution role with the basic execution policy
// attached.
func NewRole(cfg *config.Config) *iam.Role {
	return &iam.Role{
		Description:              "Execution role of the uptime function",
		AssumeRolePolicyDocument: LambdaTrustPolicy,
		ManagedPolicyArns:        []any{iam.ManagedPolicyArn(iam.LambdaBasicExecutionPolicyName)},
		Tags:                     tags(cfg),
	}
}

// BucketActions returns the S3 actions the handler variant needs.
func BucketActions(v config.Variant) []string {
	actions := []string{"s3:GetObject", "s3:ListBucket"}
	if v == config.VariantWeather {
		actions = append(actions, "s3:PutObject")
	}
	return actions
}

// NewBucketPolicy declares the inline policy granting the role access to
// the bucket and its objects.
func NewBucketPolicy(cfg *config.Config, role, bucket template.Handle) *iam.RolePolicy {
	arn := bucket.Attr("Arn")
	return &iam.RolePolicy{
		PolicyName: "uptime-bucket-access",
		RoleName:   role.Ref(),
		PolicyDocument: intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
			Effect: "Allow",
			Action: BucketActions(cfg.Handler),
			Resource: []any{
				arn,
				intrinsics.Join{Delimiter: "", Values: []any{arn, "/*"}},
			},
		}),
	}
}
