// Package route53 provides the AWS::Route53 resource types used by the uptime stack.
package route53

// HealthCheck represents an AWS::Route53::HealthCheck.
//
// Ref returns the health check ID.
type HealthCheck struct {
	HealthCheckConfig HealthCheck_Config `json:"HealthCheckConfig"`
	HealthCheckTags   []HealthCheck_Tag  `json:"HealthCheckTags,omitempty"`
}

// HealthCheck_Config describes the probe.
type HealthCheck_Config struct {
	Type                     string `json:"Type"`
	FullyQualifiedDomainName any    `json:"FullyQualifiedDomainName,omitempty"`
	ResourcePath             string `json:"ResourcePath,omitempty"`
	Port                     int    `json:"Port,omitempty"`
	RequestInterval          int    `json:"RequestInterval,omitempty"`
	FailureThreshold         int    `json:"FailureThreshold,omitempty"`
}

// HealthCheck_Tag is a health check tag. Route53 uses its own tag property
// rather than the common Tags list.
type HealthCheck_Tag struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

// ResourceType returns the CloudFormation resource type.
func (r HealthCheck) ResourceType() string {
	return "AWS::Route53::HealthCheck"
}

// HTTPS probes a TLS endpoint.
const HTTPS = "HTTPS"
