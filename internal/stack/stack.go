// Package stack declares the uptime topology: a shared bucket, a function
// with a public URL, and the alarm, health check and dashboard that watch it.
//
// Every constructor receives the configuration context explicitly. Nothing
// is read from globals or the environment.
package stack

import (
	"fmt"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/internal/template"
	"github.com/lex00/uptime-aws-go/intrinsics"
)

// Logical IDs of the declared resources.
const (
	BucketID        = "SharedBucket"
	RoleID          = "UptimeRole"
	BucketPolicyID  = "UptimeBucketPolicy"
	FunctionID      = "UptimeFunction"
	FunctionUrlID   = "UptimeFunctionUrl"
	UrlPermissionID = "UptimeFunctionUrlPermission"
	AlarmID         = "UptimeErrorRateAlarm"
	HealthCheckID   = "UptimeHealthCheck"
	DashboardID     = "UptimeServiceDashboard"
)

// Output names.
const (
	FunctionUrlOutput  = "FunctionUrl"
	DashboardUrlOutput = "DashboardUrl"
)

// Fixed resource names.
const (
	AlarmName     = "uptime-function-error-rate"
	DashboardName = "uptime-service-dashboard"
)

// Stack is the declared uptime topology.
type Stack struct {
	Config *config.Config

	Bucket        template.Handle
	Role          template.Handle
	BucketPolicy  template.Handle
	Function      template.Handle
	FunctionUrl   template.Handle
	UrlPermission template.Handle
	Alarm         template.Handle
	HealthCheck   template.Handle
	Dashboard     template.Handle

	builder *template.Builder
}

// Declare validates cfg and declares every resource and output.
func Declare(cfg *config.Config) (*Stack, error) {
	if cfg == nil {
		return nil, fmt.Errorf("declaring stack: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := template.NewBuilder(fmt.Sprintf("%s uptime service (%s, %s handler)", cfg.Project, cfg.Environment, cfg.Handler))
	s := &Stack{Config: cfg, builder: b}

	s.Bucket = b.Add(BucketID, NewBucket(cfg))
	s.Role = b.Add(RoleID, NewRole(cfg))
	s.BucketPolicy = b.Add(BucketPolicyID, NewBucketPolicy(cfg, s.Role, s.Bucket))
	s.Function = b.Add(FunctionID, NewFunction(cfg, s.Role, s.Bucket))
	s.FunctionUrl = b.Add(FunctionUrlID, NewFunctionUrl(cfg, s.Function))
	s.UrlPermission = b.Add(UrlPermissionID, NewUrlPermission(cfg, s.Function))
	s.Alarm = b.Add(AlarmID, NewErrorRateAlarm(cfg, s.Function))
	s.HealthCheck = b.Add(HealthCheckID, NewHealthCheck(cfg, s.FunctionUrl))

	dashboard, err := NewDashboard(cfg, s.Function, s.HealthCheck)
	if err != nil {
		return nil, fmt.Errorf("declaring dashboard: %w", err)
	}
	s.Dashboard = b.Add(DashboardID, dashboard)

	b.AddOutput(FunctionUrlOutput, "Public invocation URL of the uptime function", s.FunctionUrl.Attr("FunctionUrl"))
	b.AddOutput(DashboardUrlOutput, "CloudWatch console URL of the service dashboard", DashboardURL(s.Dashboard))

	return s, nil
}

// Template builds the CloudFormation template.
func (s *Stack) Template() (*uptime.Template, error) {
	return s.builder.Build()
}

// Resources returns the declared resources in dependency order.
func (s *Stack) Resources() ([]uptime.DeclaredResource, error) {
	return s.builder.Resources()
}

// DashboardURL is the console address of the dashboard:
// https://console.aws.amazon.com/cloudwatch/home?region=<region>#dashboards:name=<name>
// The region is the one the stack is deployed to.
func DashboardURL(dashboard template.Handle) intrinsics.Join {
	return intrinsics.Join{
		Delimiter: "",
		Values: []any{
			"https://console.aws.amazon.com/cloudwatch/home?region=",
			intrinsics.AWS_REGION,
			"#dashboards:name=",
			dashboard.Ref(),
		},
	}
}

// tags converts the default tags of cfg.
func tags(cfg *config.Config) []intrinsics.Tag {
	defaults := cfg.DefaultTags()
	out := make([]intrinsics.Tag, len(defaults))
	for i, t := range defaults {
		out[i] = intrinsics.Tag{Key: t.Key, Value: t.Value}
	}
	return out
}
