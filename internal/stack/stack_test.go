package stack

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uptime "github.com/lex00/uptime-aws-go"
	"github.com/lex00/uptime-aws-go/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New("eu-west-1")
	cfg.Code = config.Code{Bucket: "artifacts", Key: "uptime/bootstrap.zip"}
	require.NoError(t, cfg.Validate())
	return cfg
}

func buildTemplate(t *testing.T, cfg *config.Config) *uptime.Template {
	t.Helper()
	s, err := Declare(cfg)
	require.NoError(t, err)
	tmpl, err := s.Template()
	require.NoError(t, err)
	return tmpl
}

func properties(t *testing.T, tmpl *uptime.Template, id string) map[string]any {
	t.Helper()
	require.Contains(t, tmpl.Resources, id)
	return tmpl.Resources[id].Properties
}

func TestDeclare_Resources(t *testing.T) {
	tmpl := buildTemplate(t, testConfig(t))

	expected := map[string]string{
		BucketID:        "AWS::S3::Bucket",
		RoleID:          "AWS::IAM::Role",
		BucketPolicyID:  "AWS::IAM::RolePolicy",
		FunctionID:      "AWS::Lambda::Function",
		FunctionUrlID:   "AWS::Lambda::Url",
		UrlPermissionID: "AWS::Lambda::Permission",
		AlarmID:         "AWS::CloudWatch::Alarm",
		HealthCheckID:   "AWS::Route53::HealthCheck",
		DashboardID:     "AWS::CloudWatch::Dashboard",
	}

	assert.Len(t, tmpl.Resources, len(expected))
	for id, typ := range expected {
		require.Contains(t, tmpl.Resources, id)
		assert.Equal(t, typ, tmpl.Resources[id].Type, id)
	}

	assert.Len(t, tmpl.Outputs, 2)
	assert.Contains(t, tmpl.Outputs, FunctionUrlOutput)
	assert.Contains(t, tmpl.Outputs, DashboardUrlOutput)
}

func TestDeclare_DependencyOrder(t *testing.T) {
	s, err := Declare(testConfig(t))
	require.NoError(t, err)

	resources, err := s.Resources()
	require.NoError(t, err)

	position := make(map[string]int, len(resources))
	for i, r := range resources {
		position[r.Name] = i
	}

	before := [][2]string{
		{BucketID, BucketPolicyID},
		{RoleID, BucketPolicyID},
		{BucketID, FunctionID},
		{RoleID, FunctionID},
		{FunctionID, FunctionUrlID},
		{FunctionID, UrlPermissionID},
		{FunctionID, AlarmID},
		{FunctionUrlID, HealthCheckID},
		{FunctionID, DashboardID},
		{HealthCheckID, DashboardID},
	}
	for _, pair := range before {
		assert.Less(t, position[pair[0]], position[pair[1]], "%s before %s", pair[0], pair[1])
	}
}

func TestDeclare_Edges(t *testing.T) {
	s, err := Declare(testConfig(t))
	require.NoError(t, err)

	resources, err := s.Resources()
	require.NoError(t, err)

	byName := make(map[string]uptime.DeclaredResource, len(resources))
	for _, r := range resources {
		byName[r.Name] = r
	}

	assert.Empty(t, byName[BucketID].Dependencies)
	assert.Empty(t, byName[RoleID].Dependencies)
	assert.Equal(t, []string{BucketID, RoleID}, byName[BucketPolicyID].Dependencies)
	assert.Equal(t, []string{BucketID, RoleID}, byName[FunctionID].Dependencies)
	assert.Equal(t, []string{RoleID}, byName[FunctionID].AttrDependencies)
	assert.Equal(t, []string{FunctionID}, byName[FunctionUrlID].AttrDependencies)
	assert.Equal(t, []string{FunctionUrlID}, byName[HealthCheckID].Dependencies)
	assert.Equal(t, []string{FunctionID, HealthCheckID}, byName[DashboardID].Dependencies)
}

func TestDeclare_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Region = ""

	_, err := Declare(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrRegionRequired))

	_, err = Declare(nil)
	assert.Error(t, err)
}

func TestFunction(t *testing.T) {
	props := properties(t, buildTemplate(t, testConfig(t)), FunctionID)

	assert.Equal(t, Runtime, props["Runtime"])
	assert.Equal(t, Handler, props["Handler"])
	assert.Equal(t, []any{"arm64"}, props["Architectures"])
	assert.Equal(t, float64(128), props["MemorySize"])
	assert.Equal(t, map[string]any{"S3Bucket": "artifacts", "S3Key": "uptime/bootstrap.zip"}, props["Code"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{RoleID, "Arn"}}, props["Role"])
	assert.Equal(t, map[string]any{
		"Variables": map[string]any{BucketEnvVar: map[string]any{"Ref": BucketID}},
	}, props["Environment"])
}

func TestFunctionUrl_PublicWithCors(t *testing.T) {
	tmpl := buildTemplate(t, testConfig(t))

	url := properties(t, tmpl, FunctionUrlID)
	assert.Equal(t, "NONE", url["AuthType"])
	assert.Equal(t, map[string]any{
		"AllowOrigins": []any{"*"},
		"AllowMethods": []any{"*"},
		"AllowHeaders": []any{"*"},
	}, url["Cors"])

	perm := properties(t, tmpl, UrlPermissionID)
	assert.Equal(t, "lambda:InvokeFunctionUrl", perm["Action"])
	assert.Equal(t, "*", perm["Principal"])
	assert.Equal(t, "NONE", perm["FunctionUrlAuthType"])
}

func TestBucketPolicy(t *testing.T) {
	tests := []struct {
		variant config.Variant
		actions []any
	}{
		{config.VariantStatic, []any{"s3:GetObject", "s3:ListBucket"}},
		{config.VariantCount, []any{"s3:GetObject", "s3:ListBucket"}},
		{config.VariantWeather, []any{"s3:GetObject", "s3:ListBucket", "s3:PutObject"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Handler = tt.variant
			props := properties(t, buildTemplate(t, cfg), BucketPolicyID)

			assert.Equal(t, map[string]any{"Ref": RoleID}, props["RoleName"])
			doc := props["PolicyDocument"].(map[string]any)
			assert.Equal(t, "2012-10-17", doc["Version"])

			stmt := doc["Statement"].([]any)[0].(map[string]any)
			assert.Equal(t, "Allow", stmt["Effect"])
			assert.Equal(t, tt.actions, stmt["Action"])

			arn := map[string]any{"Fn::GetAtt": []any{BucketID, "Arn"}}
			assert.Equal(t, []any{
				arn,
				map[string]any{"Fn::Join": []any{"", []any{arn, "/*"}}},
			}, stmt["Resource"])
		})
	}
}

func TestRole(t *testing.T) {
	props := properties(t, buildTemplate(t, testConfig(t)), RoleID)

	assert.Equal(t, []any{map[string]any{"Fn::Join": []any{"", []any{
		"arn:",
		map[string]any{"Ref": "AWS::Partition"},
		":iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
	}}}}, props["ManagedPolicyArns"])

	data, err := json.Marshal(props["AssumeRolePolicyDocument"])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": "lambda.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}]
	}`, string(data))
}

func TestErrorRateAlarm(t *testing.T) {
	props := properties(t, buildTemplate(t, testConfig(t)), AlarmID)

	assert.Equal(t, AlarmName, props["AlarmName"])
	assert.Equal(t, "GreaterThanThreshold", props["ComparisonOperator"])
	assert.Equal(t, float64(2), props["EvaluationPeriods"])
	assert.Equal(t, 0.1, props["Threshold"])

	metrics := props["Metrics"].([]any)
	require.Len(t, metrics, 3)

	m1 := metrics[0].(map[string]any)
	assert.Equal(t, "m1", m1["Id"])
	assert.Equal(t, false, m1["ReturnData"])
	stat := m1["MetricStat"].(map[string]any)
	assert.Equal(t, "Sum", stat["Stat"])
	assert.Equal(t, float64(60), stat["Period"])
	metric := stat["Metric"].(map[string]any)
	assert.Equal(t, "Invocations", metric["MetricName"])
	assert.Equal(t, []any{map[string]any{"Name": "FunctionName", "Value": map[string]any{"Ref": FunctionID}}}, metric["Dimensions"])

	e1 := metrics[2].(map[string]any)
	assert.Equal(t, "m2/m1*100", e1["Expression"])
	assert.Equal(t, "Error Rate (%)", e1["Label"])
	assert.Equal(t, true, e1["ReturnData"])
}

func TestHealthCheck(t *testing.T) {
	props := properties(t, buildTemplate(t, testConfig(t)), HealthCheckID)

	hc := props["HealthCheckConfig"].(map[string]any)
	assert.Equal(t, "HTTPS", hc["Type"])
	assert.Equal(t, "/", hc["ResourcePath"])
	assert.Equal(t, float64(443), hc["Port"])
	assert.Equal(t, float64(10), hc["RequestInterval"])
	assert.Equal(t, float64(2), hc["FailureThreshold"])

	data, err := json.Marshal(hc["FullyQualifiedDomainName"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::Select": [2, {"Fn::Split": ["/", {"Fn::GetAtt": ["UptimeFunctionUrl", "FunctionUrl"]}]}]}`, string(data))
}

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://abc.lambda-url.us-east-1.on.aws/", "abc.lambda-url.us-east-1.on.aws"},
		{"https://abc.lambda-url.us-east-1.on.aws", "abc.lambda-url.us-east-1.on.aws"},
		{"https://host/path/more", "host"},
		{"http://host/", "http:"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, HostFromURL(tt.url))
		})
	}
}

func TestDashboard(t *testing.T) {
	props := properties(t, buildTemplate(t, testConfig(t)), DashboardID)
	assert.Equal(t, DashboardName, props["DashboardName"])

	sub := props["DashboardBody"].(map[string]any)["Fn::Sub"].([]any)
	require.Len(t, sub, 2)
	assert.Equal(t, map[string]any{
		"FunctionName":  map[string]any{"Ref": FunctionID},
		"HealthCheckId": map[string]any{"Ref": HealthCheckID},
	}, sub[1])

	var body struct {
		Widgets []struct {
			Properties struct {
				Metrics [][]any `json:"metrics"`
				Stat    string  `json:"stat"`
				Region  string  `json:"region"`
				Title   string  `json:"title"`
			} `json:"properties"`
		} `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal([]byte(sub[0].(string)), &body))
	require.Len(t, body.Widgets, 5)

	titles := make([]string, len(body.Widgets))
	for i, w := range body.Widgets {
		titles[i] = w.Properties.Title
	}
	assert.Equal(t, []string{
		"Traffic: Total Requests",
		"Latency: Average Duration (ms)",
		"Errors: Error Rate (%)",
		"Saturation: Concurrent Executions",
		"Availability: Health Check Status",
	}, titles)

	assert.Equal(t, "eu-west-1", body.Widgets[0].Properties.Region)
	assert.Equal(t, "us-east-1", body.Widgets[4].Properties.Region)
	assert.Equal(t, []any{"AWS/Lambda", "Invocations", "FunctionName", "${FunctionName}"}, body.Widgets[0].Properties.Metrics[0])
	assert.Len(t, body.Widgets[2].Properties.Metrics, 3)
}

func TestDashboardURL(t *testing.T) {
	tmpl := buildTemplate(t, testConfig(t))

	data, err := json.Marshal(tmpl.Outputs[DashboardUrlOutput].Value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::Join": ["", [
		"https://console.aws.amazon.com/cloudwatch/home?region=",
		{"Ref": "AWS::Region"},
		"#dashboards:name=",
		{"Ref": "UptimeServiceDashboard"}
	]]}`, string(data))

	data, err = json.Marshal(tmpl.Outputs[FunctionUrlOutput].Value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::GetAtt": ["UptimeFunctionUrl", "FunctionUrl"]}`, string(data))
}

func TestDefaultTags(t *testing.T) {
	cfg := testConfig(t)
	cfg.Environment = "prod"
	cfg.Tags = map[string]string{"Owner": "sre"}
	tmpl := buildTemplate(t, cfg)

	expected := []any{
		map[string]any{"Key": "Environment", "Value": "prod"},
		map[string]any{"Key": "Owner", "Value": "sre"},
		map[string]any{"Key": "Project", "Value": "uptime"},
	}
	for _, id := range []string{BucketID, RoleID, FunctionID, AlarmID} {
		assert.Equal(t, expected, properties(t, tmpl, id)["Tags"], id)
	}
	assert.Equal(t, expected, properties(t, tmpl, HealthCheckID)["HealthCheckTags"])
}
