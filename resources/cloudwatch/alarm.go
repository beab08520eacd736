// Package cloudwatch provides the AWS::CloudWatch resource types used by the
// uptime stack, plus a typed model of the dashboard body document.
package cloudwatch

import (
	"github.com/lex00/uptime-aws-go/intrinsics"
)

// Alarm represents an AWS::CloudWatch::Alarm.
//
// Ref returns the alarm name. GetAtt supports Arn.
type Alarm struct {
	AlarmName          any                     `json:"AlarmName,omitempty"`
	AlarmDescription   string                  `json:"AlarmDescription,omitempty"`
	ComparisonOperator string                  `json:"ComparisonOperator"`
	EvaluationPeriods  int                     `json:"EvaluationPeriods"`
	Threshold          float64                 `json:"Threshold"`
	TreatMissingData   string                  `json:"TreatMissingData,omitempty"`
	Metrics            []Alarm_MetricDataQuery `json:"Metrics,omitempty"`
	Tags               []intrinsics.Tag        `json:"Tags,omitempty"`
}

// Alarm_MetricDataQuery is one metric or math expression evaluated by the alarm.
type Alarm_MetricDataQuery struct {
	Id         string            `json:"Id"`
	Expression string            `json:"Expression,omitempty"`
	Label      string            `json:"Label,omitempty"`
	MetricStat *Alarm_MetricStat `json:"MetricStat,omitempty"`
	ReturnData *bool             `json:"ReturnData,omitempty"`
}

// Alarm_MetricStat selects a metric, period and statistic.
type Alarm_MetricStat struct {
	Metric Alarm_Metric `json:"Metric"`
	Period int          `json:"Period"`
	Stat   string       `json:"Stat"`
}

// Alarm_Metric identifies a metric.
type Alarm_Metric struct {
	Namespace  string            `json:"Namespace"`
	MetricName string            `json:"MetricName"`
	Dimensions []Alarm_Dimension `json:"Dimensions,omitempty"`
}

// Alarm_Dimension is a name/value pair of a metric.
type Alarm_Dimension struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// ResourceType returns the CloudFormation resource type.
func (r Alarm) ResourceType() string {
	return "AWS::CloudWatch::Alarm"
}

// Comparison operators.
const (
	GreaterThanThreshold          = "GreaterThanThreshold"
	GreaterThanOrEqualToThreshold = "GreaterThanOrEqualToThreshold"
	LessThanThreshold             = "LessThanThreshold"
)

// Bool returns a pointer to b, for ReturnData.
func Bool(b bool) *bool {
	return &b
}
