package optimizer

import (
	uptime "github.com/lex00/uptime-aws-go"
)

var rulesByType = map[string][]Rule{
	"AWS::S3::Bucket":           s3BucketRules,
	"AWS::IAM::RolePolicy":      iamRules,
	"AWS::Lambda::Function":     lambdaFunctionRules,
	"AWS::Lambda::Url":          lambdaUrlRules,
	"AWS::CloudWatch::Alarm":    alarmRules,
	"AWS::Route53::HealthCheck": healthCheckRules,
}

// s3BucketRules contains optimization rules for S3 buckets.
var s3BucketRules = []Rule{
	{
		ID:       "OPT-S3-001",
		Category: CategorySecurity,
		Severity: "high",
		Title:    "S3 bucket should block public access",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if has(props, "PublicAccessBlockConfiguration") {
				return nil
			}
			return &uptime.Suggestion{
				Description: "The bucket has no PublicAccessBlockConfiguration, so a later ACL or policy change can expose its objects.",
				Fix:         "Add PublicAccessBlockConfiguration with BlockPublicAcls, BlockPublicPolicy, IgnorePublicAcls and RestrictPublicBuckets set to true.",
			}
		},
	},
	{
		ID:       "OPT-S3-002",
		Category: CategoryReliability,
		Severity: "medium",
		Title:    "S3 bucket should have versioning enabled",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if str(nested(props, "VersioningConfiguration", "Status")) == "Enabled" {
				return nil
			}
			return &uptime.Suggestion{
				Description: "Versioning keeps earlier object versions after an overwrite or delete.",
				Fix:         "Add VersioningConfiguration with Status set to 'Enabled'.",
			}
		},
	},
	{
		ID:       "OPT-S3-003",
		Category: CategoryCost,
		Severity: "low",
		Title:    "S3 bucket should have lifecycle rules",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if has(props, "LifecycleConfiguration") {
				return nil
			}
			return &uptime.Suggestion{
				Description: "Weather reports accumulate one object per invocation and are never expired.",
				Fix:         "Add LifecycleConfiguration with an expiration rule for old reports.",
			}
		},
	},
}

// lambdaFunctionRules contains optimization rules for Lambda functions.
var lambdaFunctionRules = []Rule{
	{
		ID:       "OPT-LAM-001",
		Category: CategoryPerformance,
		Severity: "low",
		Title:    "Lambda function runs with the minimum memory size",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if mem, ok := props["MemorySize"].(float64); ok && mem > 128 {
				return nil
			}
			return &uptime.Suggestion{
				Description: "CPU is allocated in proportion to memory, so 128 MB slows down the S3 and HTTP calls of the handler.",
				Fix:         "Raise memorySize in the configuration after measuring the duration metric.",
			}
		},
	},
	{
		ID:       "OPT-LAM-002",
		Category: CategoryReliability,
		Severity: "medium",
		Title:    "Lambda function has no reserved concurrency",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if has(props, "ReservedConcurrentExecutions") {
				return nil
			}
			return &uptime.Suggestion{
				Description: "A public URL can be invoked by anyone, and unbounded concurrency can exhaust the account limit.",
				Fix:         "Set ReservedConcurrentExecutions on the function.",
			}
		},
	},
	{
		ID:       "OPT-LAM-003",
		Category: CategoryCost,
		Severity: "low",
		Title:    "Lambda function should run on arm64",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if archs, ok := props["Architectures"].([]any); ok && len(archs) == 1 && archs[0] == "arm64" {
				return nil
			}
			return &uptime.Suggestion{
				Description: "Graviton functions cost less per GB-second than x86_64.",
				Fix:         "Set architecture: arm64 in the configuration and build the bootstrap with GOARCH=arm64.",
			}
		},
	},
}

// lambdaUrlRules contains optimization rules for function URLs.
var lambdaUrlRules = []Rule{
	{
		ID:       "OPT-URL-001",
		Category: CategorySecurity,
		Severity: "medium",
		Title:    "Function URL is publicly invocable",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if str(props["AuthType"]) != "NONE" {
				return nil
			}
			return &uptime.Suggestion{
				Description: "AuthType NONE lets any caller invoke the function. The health check needs this, but every request is billed.",
				Fix:         "Keep the function cheap and bounded, or switch to AWS_IAM and sign the health check requests.",
			}
		},
	},
}

// iamRules contains optimization rules for inline policies.
var iamRules = []Rule{
	{
		ID:       "OPT-IAM-001",
		Category: CategorySecurity,
		Severity: "high",
		Title:    "Policy grants wildcard actions",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			statements, _ := nested(props, "PolicyDocument", "Statement").([]any)
			for _, st := range statements {
				m, _ := st.(map[string]any)
				if containsWildcard(m["Action"]) {
					return &uptime.Suggestion{
						Description: "A statement allows every action of a service.",
						Fix:         "List only the actions the handler calls.",
					}
				}
			}
			return nil
		},
	},
}

// alarmRules contains optimization rules for CloudWatch alarms.
var alarmRules = []Rule{
	{
		ID:       "OPT-CW-001",
		Category: CategoryReliability,
		Severity: "medium",
		Title:    "Alarm has no actions",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if has(props, "AlarmActions") {
				return nil
			}
			return &uptime.Suggestion{
				Description: "The alarm changes state without notifying anyone.",
				Fix:         "Add AlarmActions pointing to an SNS topic.",
			}
		},
	},
	{
		ID:       "OPT-CW-002",
		Category: CategoryReliability,
		Severity: "low",
		Title:    "Alarm does not define missing data handling",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if has(props, "TreatMissingData") {
				return nil
			}
			return &uptime.Suggestion{
				Description: "With no invocations the error rate expression has no data, and the alarm goes to INSUFFICIENT_DATA.",
				Fix:         "Set TreatMissingData to notBreaching.",
			}
		},
	},
}

// healthCheckRules contains optimization rules for Route 53 health checks.
var healthCheckRules = []Rule{
	{
		ID:       "OPT-R53-001",
		Category: CategoryCost,
		Severity: "low",
		Title:    "Health check uses the fast request interval",
		Check: func(_ string, props map[string]any) *uptime.Suggestion {
			if interval, ok := nested(props, "HealthCheckConfig", "RequestInterval").(float64); ok && interval >= 30 {
				return nil
			}
			return &uptime.Suggestion{
				Description: "A 10 second interval is billed as a fast health check and invokes the function from every checker region.",
				Fix:         "Use RequestInterval 30 unless faster detection is required.",
			}
		},
	},
}

func has(props map[string]any, key string) bool {
	v, ok := props[key]
	return ok && v != nil
}

func nested(props map[string]any, keys ...string) any {
	var cur any = props
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func containsWildcard(action any) bool {
	switch a := action.(type) {
	case string:
		return a == "*" || len(a) > 2 && a[len(a)-2:] == ":*"
	case []any:
		for _, e := range a {
			if containsWildcard(e) {
				return true
			}
		}
	}
	return false
}
