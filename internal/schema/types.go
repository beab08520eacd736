package schema

import "sort"

// resourceSchemas covers the resource types of the uptime stack. Required
// lists follow the CloudFormation resource type reference.
var resourceSchemas = map[string]ResourceSchema{
	"AWS::S3::Bucket": {
		Properties: map[string]PropertySchema{
			"BucketName": {Type: "String"},
			"AccessControl": {Type: "String", AllowedValues: []string{
				"Private", "PublicRead", "PublicReadWrite", "AuthenticatedRead",
				"LogDeliveryWrite", "BucketOwnerRead", "BucketOwnerFullControl", "AwsExecRead",
			}},
			"Tags": {Type: "List"},
		},
	},
	"AWS::IAM::Role": {
		Required: []string{"AssumeRolePolicyDocument"},
		Properties: map[string]PropertySchema{
			"RoleName":                 {Type: "String"},
			"Description":              {Type: "String"},
			"AssumeRolePolicyDocument": {Type: "Map"},
			"ManagedPolicyArns":        {Type: "List"},
			"Tags":                     {Type: "List"},
		},
	},
	"AWS::IAM::RolePolicy": {
		Required: []string{"PolicyName", "RoleName"},
		Properties: map[string]PropertySchema{
			"PolicyName":     {Type: "String"},
			"RoleName":       {Type: "String"},
			"PolicyDocument": {Type: "Map"},
		},
	},
	"AWS::Lambda::Function": {
		Required: []string{"Code", "Role"},
		Properties: map[string]PropertySchema{
			"FunctionName":  {Type: "String"},
			"Description":   {Type: "String"},
			"Code":          {Type: "Map"},
			"Role":          {Type: "String"},
			"Handler":       {Type: "String"},
			"Runtime":       {Type: "String"},
			"Architectures": {Type: "List"},
			"MemorySize":    {Type: "Integer"},
			"Timeout":       {Type: "Integer"},
			"Environment":   {Type: "Map"},
			"Tags":          {Type: "List"},
		},
	},
	"AWS::Lambda::Url": {
		Required: []string{"AuthType", "TargetFunctionArn"},
		Properties: map[string]PropertySchema{
			"TargetFunctionArn": {Type: "String"},
			"AuthType":          {Type: "String", AllowedValues: []string{"AWS_IAM", "NONE"}},
			"Cors":              {Type: "Map"},
			"Qualifier":         {Type: "String"},
		},
	},
	"AWS::Lambda::Permission": {
		Required: []string{"Action", "FunctionName", "Principal"},
		Properties: map[string]PropertySchema{
			"Action":              {Type: "String"},
			"FunctionName":        {Type: "String"},
			"Principal":           {Type: "String"},
			"FunctionUrlAuthType": {Type: "String", AllowedValues: []string{"AWS_IAM", "NONE"}},
			"SourceArn":           {Type: "String"},
		},
	},
	"AWS::CloudWatch::Alarm": {
		Required: []string{"ComparisonOperator", "EvaluationPeriods"},
		Properties: map[string]PropertySchema{
			"AlarmName":        {Type: "String"},
			"AlarmDescription": {Type: "String"},
			"ComparisonOperator": {Type: "String", AllowedValues: []string{
				"GreaterThanOrEqualToThreshold", "GreaterThanThreshold",
				"LessThanThreshold", "LessThanOrEqualToThreshold",
				"LessThanLowerOrGreaterThanUpperThreshold",
				"LessThanLowerThreshold", "GreaterThanUpperThreshold",
			}},
			"EvaluationPeriods": {Type: "Integer"},
			"Threshold":         {Type: "Number"},
			"TreatMissingData": {Type: "String", AllowedValues: []string{
				"breaching", "notBreaching", "ignore", "missing",
			}},
			"Metrics": {Type: "List"},
			"Tags":    {Type: "List"},
		},
	},
	"AWS::Route53::HealthCheck": {
		Required: []string{"HealthCheckConfig"},
		Properties: map[string]PropertySchema{
			"HealthCheckConfig": {Type: "Map"},
			"HealthCheckTags":   {Type: "List"},
		},
	},
	"AWS::CloudWatch::Dashboard": {
		Required: []string{"DashboardBody"},
		Properties: map[string]PropertySchema{
			"DashboardName": {Type: "String"},
			"DashboardBody": {Type: "String"},
		},
	},
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
