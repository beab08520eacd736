package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// Static answers with a fixed body naming the bucket. It performs no I/O.
type Static struct {
	Env Env
}

// Handle implements Handler.
func (h *Static) Handle(_ context.Context, _ json.RawMessage) (events.LambdaFunctionURLResponse, error) {
	bucket, err := h.Env.bucket()
	if err != nil {
		return events.LambdaFunctionURLResponse{}, err
	}

	h.Env.logger().WithField("bucket", bucket).Info("static handler invoked")
	return ok(fmt.Sprintf("Lambda executed successfully. Using bucket: %s", bucket)), nil
}
