package lambda

// Permission represents an AWS::Lambda::Permission.
type Permission struct {
	Action              string `json:"Action"`
	FunctionName        any    `json:"FunctionName"`
	Principal           string `json:"Principal"`
	FunctionUrlAuthType string `json:"FunctionUrlAuthType,omitempty"`
	SourceArn           any    `json:"SourceArn,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Permission) ResourceType() string {
	return "AWS::Lambda::Permission"
}
