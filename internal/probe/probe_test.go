package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFunctions struct {
	url  string
	err  error
	name string
}

func (f *fakeFunctions) GetFunctionUrlConfig(_ context.Context, in *lambda.GetFunctionUrlConfigInput, _ ...func(*lambda.Options)) (*lambda.GetFunctionUrlConfigOutput, error) {
	f.name = aws.ToString(in.FunctionName)
	if f.err != nil {
		return nil, f.err
	}
	return &lambda.GetFunctionUrlConfigOutput{FunctionUrl: aws.String(f.url)}, nil
}

type fakeAlarms struct {
	alarms []cwtypes.MetricAlarm
	err    error
	names  []string
}

func (f *fakeAlarms) DescribeAlarms(_ context.Context, in *cloudwatch.DescribeAlarmsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error) {
	f.names = in.AlarmNames
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.DescribeAlarmsOutput{MetricAlarms: f.alarms}, nil
}

func okAlarm() *fakeAlarms {
	return &fakeAlarms{alarms: []cwtypes.MetricAlarm{{
		AlarmName:   aws.String("uptime-function-error-rate"),
		StateValue:  cwtypes.StateValueOk,
		StateReason: aws.String("Threshold Crossed: no datapoints"),
	}}}
}

func TestCheck_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = io.WriteString(w, "Lambda executed successfully. Using bucket: b")
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	functions := &fakeFunctions{url: "https://" + host + "/"}
	alarms := okAlarm()
	c := &Checker{Functions: functions, Alarms: alarms, HTTP: srv.Client(), Scheme: "http"}

	report, err := c.Check(context.Background(), "uptime-fn", "uptime-function-error-rate")
	require.NoError(t, err)

	assert.Equal(t, "uptime-fn", functions.name)
	assert.Equal(t, []string{"uptime-function-error-rate"}, alarms.names)
	assert.Equal(t, host, report.Host)
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.True(t, report.Healthy)
	assert.Empty(t, report.ProbeError)
	assert.Equal(t, "Lambda executed successfully. Using bucket: b", report.Body)
	assert.Equal(t, "OK", report.AlarmState)
}

func TestCheck_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	c := &Checker{
		Functions: &fakeFunctions{url: "https://" + host + "/"},
		Alarms:    okAlarm(),
		HTTP:      srv.Client(),
		Scheme:    "http",
	}

	report, err := c.Check(context.Background(), "uptime-fn", "uptime-function-error-rate")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, report.StatusCode)
	assert.False(t, report.Healthy)
}

func TestCheck_UnreachableIsReported(t *testing.T) {
	c := &Checker{
		Functions: &fakeFunctions{url: "https://127.0.0.1:1/"},
		Alarms:    okAlarm(),
		Scheme:    "http",
	}

	report, err := c.Check(context.Background(), "uptime-fn", "uptime-function-error-rate")
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.NotEmpty(t, report.ProbeError)
	assert.Equal(t, "OK", report.AlarmState)
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (brokenBody) Close() error { return nil }

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestCheck_BodyReadErrorIsReported(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Status: "200 OK", Body: brokenBody{}, Request: r}, nil
	})}
	c := &Checker{
		Functions: &fakeFunctions{url: "https://abc.lambda-url.us-east-1.on.aws/"},
		Alarms:    okAlarm(),
		HTTP:      client,
	}

	report, err := c.Check(context.Background(), "uptime-fn", "uptime-function-error-rate")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.False(t, report.Healthy)
	assert.Equal(t, "reading body: unexpected EOF", report.ProbeError)
	assert.Equal(t, "OK", report.AlarmState)
}

func TestCheck_APIErrors(t *testing.T) {
	cause := errors.New("ResourceNotFoundException")

	c := &Checker{Functions: &fakeFunctions{err: cause}, Alarms: okAlarm()}
	_, err := c.Check(context.Background(), "uptime-fn", "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "uptime-fn")

	c = &Checker{
		Functions: &fakeFunctions{url: "https://127.0.0.1:1/"},
		Alarms:    &fakeAlarms{},
		Scheme:    "http",
	}
	_, err = c.Check(context.Background(), "uptime-fn", "missing-alarm")
	assert.ErrorIs(t, err, ErrAlarmNotFound)

	c.Alarms = &fakeAlarms{err: cause}
	_, err = c.Check(context.Background(), "uptime-fn", "a")
	assert.ErrorIs(t, err, cause)
}
