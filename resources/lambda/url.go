package lambda

// Url represents an AWS::Lambda::Url, a dedicated HTTPS endpoint for a function.
//
// GetAtt supports FunctionArn and FunctionUrl. FunctionUrl has the form
// https://<url-id>.lambda-url.<region>.on.aws/
type Url struct {
	TargetFunctionArn any       `json:"TargetFunctionArn"`
	AuthType          string    `json:"AuthType"`
	Cors              *Url_Cors `json:"Cors,omitempty"`
	Qualifier         string    `json:"Qualifier,omitempty"`
}

// Url_Cors is the cross-origin resource sharing rule of a function URL.
type Url_Cors struct {
	AllowCredentials bool     `json:"AllowCredentials,omitempty"`
	AllowHeaders     []string `json:"AllowHeaders,omitempty"`
	AllowMethods     []string `json:"AllowMethods,omitempty"`
	AllowOrigins     []string `json:"AllowOrigins,omitempty"`
	ExposeHeaders    []string `json:"ExposeHeaders,omitempty"`
	MaxAge           int      `json:"MaxAge,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Url) ResourceType() string {
	return "AWS::Lambda::Url"
}

// AuthTypeNone makes a function URL public.
const AuthTypeNone = "NONE"
