package stack

import (
	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/internal/template"
	"github.com/lex00/uptime-aws-go/intrinsics"
	"github.com/lex00/uptime-aws-go/resources/lambda"
)

// Function runtime settings. The handler binary is named bootstrap, as the
// provided runtimes require.
const (
	Runtime = "provided.al2023"
	Handler = "bootstrap"
)

// BucketEnvVar carries the shared bucket name into the function.
const BucketEnvVar = "BUCKET_NAME"

// NewFunction declares the function running the configured handler variant.
func NewFunction(cfg *config.Config, role, bucket template.Handle) *lambda.Function {
	return &lambda.Function{
		Description: "uptime " + string(cfg.Handler) + " handler",
		Code: lambda.Function_Code{
			S3Bucket: cfg.Code.Bucket,
			S3Key:    cfg.Code.Key,
		},
		Role:          role.Attr("Arn"),
		Handler:       Handler,
		Runtime:       Runtime,
		Architectures: []string{cfg.Architecture},
		MemorySize:    cfg.MemorySize,
		Timeout:       cfg.Timeout,
		Environment: &lambda.Function_Environment{
			Variables: map[string]any{BucketEnvVar: bucket.Ref()},
		},
		Tags: tags(cfg),
	}
}

// NewFunctionUrl declares the public HTTPS endpoint of the function.
func NewFunctionUrl(_ *config.Config, fn template.Handle) *lambda.Url {
	return &lambda.Url{
		TargetFunctionArn: fn.Attr("Arn"),
		AuthType:          lambda.AuthTypeNone,
		Cors: &lambda.Url_Cors{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"*"},
			AllowHeaders: []string{"*"},
		},
	}
}

// NewUrlPermission lets anyone invoke the function through its URL.
func NewUrlPermission(_ *config.Config, fn template.Handle) *lambda.Permission {
	return &lambda.Permission{
		Action:              "lambda:InvokeFunctionUrl",
		FunctionName:        fn.Ref(),
		Principal:           intrinsics.AllPrincipal,
		FunctionUrlAuthType: lambda.AuthTypeNone,
	}
}
