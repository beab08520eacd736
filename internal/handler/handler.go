// Package handler implements the uptime function bodies.
//
// Every variant reads the bucket name from BUCKET_NAME and answers a Lambda
// function URL request. Failures are returned as errors, which the Lambda
// runtime reports as invocation failures. There is no retry and no partial
// result.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// BucketEnvVar is the environment variable holding the bucket name.
const BucketEnvVar = "BUCKET_NAME"

// Handler is one function body.
type Handler interface {
	Handle(ctx context.Context, event json.RawMessage) (events.LambdaFunctionURLResponse, error)
}

// LookupEnv reads an environment variable. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// Env holds what every variant needs: the environment lookup and a logger.
type Env struct {
	Lookup LookupEnv
	Logger logrus.FieldLogger
}

// DefaultEnv reads the process environment and logs JSON to stdout.
func DefaultEnv() Env {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	return Env{Lookup: os.LookupEnv, Logger: logger}
}

func (e Env) logger() logrus.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// bucket returns the configured bucket name. An empty value counts as
// missing.
func (e Env) bucket() (string, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name, ok := lookup(BucketEnvVar)
	if !ok || name == "" {
		return "", ErrConfigurationMissing
	}
	return name, nil
}

func ok(body string) events.LambdaFunctionURLResponse {
	return events.LambdaFunctionURLResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       body,
	}
}
