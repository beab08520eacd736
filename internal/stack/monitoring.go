package stack

import (
	"strings"

	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/internal/template"
	"github.com/lex00/uptime-aws-go/intrinsics"
	"github.com/lex00/uptime-aws-go/resources/cloudwatch"
	"github.com/lex00/uptime-aws-go/resources/route53"
)

const (
	lambdaNamespace = "AWS/Lambda"
	route53Region   = "us-east-1"
	metricPeriod    = 60
	errorRateExpr   = "m2/m1*100"
	errorRateLabel  = "Error Rate (%)"
)

// NewErrorRateAlarm declares an alarm on the function error rate in percent.
func NewErrorRateAlarm(cfg *config.Config, fn template.Handle) *cloudwatch.Alarm {
	metric := func(id, name string) cloudwatch.Alarm_MetricDataQuery {
		return cloudwatch.Alarm_MetricDataQuery{
			Id: id,
			MetricStat: &cloudwatch.Alarm_MetricStat{
				Metric: cloudwatch.Alarm_Metric{
					Namespace:  lambdaNamespace,
					MetricName: name,
					Dimensions: []cloudwatch.Alarm_Dimension{{Name: "FunctionName", Value: fn.Ref()}},
				},
				Period: metricPeriod,
				Stat:   "Sum",
			},
			ReturnData: cloudwatch.Bool(false),
		}
	}

	return &cloudwatch.Alarm{
		AlarmName:          AlarmName,
		AlarmDescription:   "Alarm when Lambda error rate exceeds threshold",
		ComparisonOperator: cloudwatch.GreaterThanThreshold,
		EvaluationPeriods:  2,
		Threshold:          0.1,
		Metrics: []cloudwatch.Alarm_MetricDataQuery{
			metric("m1", "Invocations"),
			metric("m2", "Errors"),
			{Id: "e1", Expression: errorRateExpr, Label: errorRateLabel, ReturnData: cloudwatch.Bool(true)},
		},
		Tags: tags(cfg),
	}
}

// NewHealthCheck declares an HTTPS probe of the function URL host.
func NewHealthCheck(cfg *config.Config, url template.Handle) *route53.HealthCheck {
	hcTags := make([]route53.HealthCheck_Tag, 0, len(cfg.DefaultTags()))
	for _, t := range cfg.DefaultTags() {
		hcTags = append(hcTags, route53.HealthCheck_Tag{Key: t.Key, Value: t.Value})
	}

	return &route53.HealthCheck{
		HealthCheckConfig: route53.HealthCheck_Config{
			Type:                     route53.HTTPS,
			FullyQualifiedDomainName: HostOf(url.Attr("FunctionUrl")),
			ResourcePath:             "/",
			Port:                     443,
			RequestInterval:          10,
			FailureThreshold:         2,
		},
		HealthCheckTags: hcTags,
	}
}

// HostOf is the deploy-time form of HostFromURL: the third "/"-separated
// field of https://host/ is the host.
func HostOf(url any) intrinsics.Select {
	return intrinsics.Select{
		Index: 2,
		List:  intrinsics.Split{Delimiter: "/", Source: url},
	}
}

// HostFromURL strips the https:// prefix and cuts at the first "/". The
// result is not validated.
func HostFromURL(url string) string {
	host := strings.TrimPrefix(url, "https://")
	host, _, _ = strings.Cut(host, "/")
	return host
}

// DashboardBody returns the dashboard document with ${FunctionName} and
// ${HealthCheckId} placeholders.
func DashboardBody(cfg *config.Config) cloudwatch.DashboardBody {
	fn := "${FunctionName}"
	widget := func(y int, title, stat, region string, metrics ...[]any) cloudwatch.Widget {
		return cloudwatch.Widget{
			Type:   cloudwatch.MetricWidgetType,
			X:      0,
			Y:      y,
			Width:  12,
			Height: 6,
			Properties: cloudwatch.MetricWidget{
				Metrics: metrics,
				Period:  metricPeriod,
				Stat:    stat,
				Region:  region,
				Title:   title,
			},
		}
	}

	return cloudwatch.DashboardBody{
		Widgets: []cloudwatch.Widget{
			widget(0, "Traffic: Total Requests", "Sum", cfg.Region,
				cloudwatch.Metric(lambdaNamespace, "Invocations", "FunctionName", fn, nil)),
			widget(6, "Latency: Average Duration (ms)", "Average", cfg.Region,
				cloudwatch.Metric(lambdaNamespace, "Duration", "FunctionName", fn, nil)),
			widget(12, "Errors: Error Rate (%)", "", cfg.Region,
				cloudwatch.Metric(lambdaNamespace, "Invocations", "FunctionName", fn,
					&cloudwatch.MetricOptions{ID: "m1", Visible: cloudwatch.Bool(false)}),
				cloudwatch.Metric(lambdaNamespace, "Errors", "FunctionName", fn,
					&cloudwatch.MetricOptions{ID: "m2", Visible: cloudwatch.Bool(false)}),
				cloudwatch.Expression(errorRateExpr, errorRateLabel, "e1")),
			widget(18, "Saturation: Concurrent Executions", "Maximum", cfg.Region,
				cloudwatch.Metric(lambdaNamespace, "ConcurrentExecutions", "FunctionName", fn, nil)),
			// Route53 health check metrics only exist in us-east-1.
			widget(24, "Availability: Health Check Status", "Minimum", route53Region,
				cloudwatch.Metric("AWS/Route53", "HealthCheckStatus", "HealthCheckId", "${HealthCheckId}", nil)),
		},
	}
}

// NewDashboard declares the service dashboard.
func NewDashboard(cfg *config.Config, fn, healthCheck template.Handle) (*cloudwatch.Dashboard, error) {
	body, err := DashboardBody(cfg).JSON()
	if err != nil {
		return nil, err
	}

	return &cloudwatch.Dashboard{
		DashboardName: DashboardName,
		DashboardBody: intrinsics.SubWithMap{
			String: body,
			Variables: map[string]any{
				"FunctionName":  fn.Ref(),
				"HealthCheckId": healthCheck.Ref(),
			},
		},
	}, nil
}
