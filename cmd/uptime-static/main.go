// Command uptime-static is the Lambda bootstrap for the static handler. It
// answers every request with the name of the shared bucket.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lex00/uptime-aws-go/internal/handler"
)

func main() {
	h := &handler.Static{Env: handler.DefaultEnv()}
	lambda.Start(h.Handle)
}
