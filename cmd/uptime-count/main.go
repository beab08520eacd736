// Command uptime-count is the Lambda bootstrap for the count handler. It
// answers with the number of objects in the shared bucket.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lex00/uptime-aws-go/internal/handler"
)

func main() {
	env := handler.DefaultEnv()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		env.Logger.WithError(err).Fatal("error loading AWS config")
	}

	h := &handler.Count{
		Env:      env,
		S3:       s3.NewFromConfig(awsCfg),
		PageSize: handler.DefaultPageSize,
	}
	lambda.Start(h.Handle)
}
