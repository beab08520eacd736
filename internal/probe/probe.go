// Package probe checks a deployed uptime stack from the operator side: it
// resolves the function URL, requests the host the health check targets,
// and reads the error-rate alarm.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/lex00/uptime-aws-go/internal/stack"
)

// ErrAlarmNotFound is returned when DescribeAlarms finds no alarm by name.
var ErrAlarmNotFound = errors.New("alarm not found")

// FunctionURLAPI is the subset of the Lambda client used by Checker.
type FunctionURLAPI interface {
	GetFunctionUrlConfig(ctx context.Context, params *lambda.GetFunctionUrlConfigInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionUrlConfigOutput, error)
}

// AlarmsAPI is the subset of the CloudWatch client used by Checker.
type AlarmsAPI interface {
	DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
}

var (
	_ FunctionURLAPI = (*lambda.Client)(nil)
	_ AlarmsAPI      = (*cloudwatch.Client)(nil)
)

// Checker probes one deployed stack.
type Checker struct {
	Functions FunctionURLAPI
	Alarms    AlarmsAPI
	HTTP      *http.Client
	// Scheme of the probed URL, "https" when empty.
	Scheme string
}

// Report is the result of Check.
type Report struct {
	FunctionURL string        `json:"function_url"`
	Host        string        `json:"host"`
	StatusCode  int           `json:"status_code"`
	Healthy     bool          `json:"healthy"`
	Latency     time.Duration `json:"latency"`
	Body        string        `json:"body,omitempty"`
	ProbeError  string        `json:"probe_error,omitempty"`
	AlarmState  string        `json:"alarm_state"`
	AlarmReason string        `json:"alarm_reason,omitempty"`
}

// maxBody bounds how much of the response body the report keeps.
const maxBody = 512

// Check probes the function URL and reads the alarm state. An unreachable
// endpoint is reported, not returned as an error; AWS API failures are.
func (c *Checker) Check(ctx context.Context, functionName, alarmName string) (*Report, error) {
	cfg, err := c.Functions.GetFunctionUrlConfig(ctx, &lambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return nil, fmt.Errorf("getting function URL of %s: %w", functionName, err)
	}

	url := aws.ToString(cfg.FunctionUrl)
	report := &Report{
		FunctionURL: url,
		Host:        stack.HostFromURL(url),
	}

	c.probe(ctx, report)

	state, reason, err := c.alarm(ctx, alarmName)
	if err != nil {
		return nil, err
	}
	report.AlarmState = state
	report.AlarmReason = reason

	return report, nil
}

func (c *Checker) probe(ctx context.Context, report *Report) {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+report.Host+"/", nil)
	if err != nil {
		report.ProbeError = err.Error()
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	report.Latency = time.Since(start)
	if err != nil {
		report.ProbeError = err.Error()
		return
	}
	defer resp.Body.Close()

	report.StatusCode = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	report.Body = string(body)
	if err != nil {
		report.ProbeError = fmt.Sprintf("reading body: %v", err)
		return
	}
	report.Healthy = resp.StatusCode >= 200 && resp.StatusCode < 400
}

func (c *Checker) alarm(ctx context.Context, name string) (string, string, error) {
	out, err := c.Alarms.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
		AlarmNames: []string{name},
	})
	if err != nil {
		return "", "", fmt.Errorf("describing alarm %s: %w", name, err)
	}
	if len(out.MetricAlarms) == 0 {
		return "", "", fmt.Errorf("%w: %s", ErrAlarmNotFound, name)
	}

	alarm := out.MetricAlarms[0]
	return string(alarm.StateValue), aws.ToString(alarm.StateReason), nil
}
