// Command uptime-weather is the Lambda bootstrap for the weather handler. It
// stores the current Seattle weather report in the shared bucket.
package main

import (
	"context"
	"net/http"

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

	h := &handler.Weather{
		Env:  env,
		S3:   s3.NewFromConfig(awsCfg),
		HTTP: http.DefaultClient,
	}
	lambda.Start(h.Handle)
}
