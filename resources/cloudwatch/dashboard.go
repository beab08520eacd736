package cloudwatch

import (
	"encoding/json"
)

// Dashboard represents an AWS::CloudWatch::Dashboard.
//
// DashboardBody is a JSON string. Build it from a DashboardBody value and wrap
// it in Fn::Sub when it must embed values only known at deploy time.
type Dashboard struct {
	DashboardName any `json:"DashboardName,omitempty"`
	DashboardBody any `json:"DashboardBody"`
}

// ResourceType returns the CloudFormation resource type.
func (r Dashboard) ResourceType() string {
	return "AWS::CloudWatch::Dashboard"
}

// DashboardBody is the dashboard body document.
type DashboardBody struct {
	Widgets []Widget `json:"widgets"`
}

// Widget is one dashboard widget.
type Widget struct {
	Type       string       `json:"type"`
	X          int          `json:"x"`
	Y          int          `json:"y"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Properties MetricWidget `json:"properties"`
}

// MetricWidget holds the properties of a "metric" widget. Each entry of
// Metrics is either a metric array built with Metric or a single
// expression built with Expression.
type MetricWidget struct {
	Metrics [][]any `json:"metrics"`
	Period  int     `json:"period"`
	Stat    string  `json:"stat,omitempty"`
	Region  string  `json:"region"`
	Title   string  `json:"title"`
	View    string  `json:"view,omitempty"`
}

// MetricOptions are the rendering options that may trail a metric array.
type MetricOptions struct {
	ID      string `json:"id,omitempty"`
	Label   string `json:"label,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// MetricExpression is a metric math entry.
type MetricExpression struct {
	Expression string `json:"expression"`
	Label      string `json:"label,omitempty"`
	ID         string `json:"id,omitempty"`
}

// Metric builds a metric array: namespace, metric name, then dimension
// name/value pairs, then optional rendering options.
func Metric(namespace, name string, dimension, value any, opts *MetricOptions) []any {
	m := []any{namespace, name, dimension, value}
	if opts != nil {
		m = append(m, opts)
	}
	return m
}

// Expression builds a metric math entry.
func Expression(expr, label, id string) []any {
	return []any{MetricExpression{Expression: expr, Label: label, ID: id}}
}

// JSON serializes the body document.
func (b DashboardBody) JSON() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MetricWidgetType is the widget type for metric graphs.
const MetricWidgetType = "metric"
