package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// WeatherURL is the report fetched by Weather. wttr.in requires no API key.
const WeatherURL = "https://wttr.in/Seattle?format=j1"

var errMalformedBody = errors.New("body is not a single JSON document")

// KeyLayout formats the object key timestamp, in UTC, to the second.
const KeyLayout = "20060102T150405Z"

// PutObjectAPI is the subset of the S3 client used by Weather.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Weather fetches the Seattle weather report and stores it in the bucket
// under a timestamped key.
type Weather struct {
	Env  Env
	S3   PutObjectAPI
	HTTP HTTPDoer
	// URL overrides WeatherURL.
	URL string
	// Now overrides time.Now.
	Now func() time.Time
}

// Handle implements Handler.
func (h *Weather) Handle(ctx context.Context, _ json.RawMessage) (events.LambdaFunctionURLResponse, error) {
	bucket, err := h.Env.bucket()
	if err != nil {
		return events.LambdaFunctionURLResponse{}, err
	}

	report, err := h.fetch(ctx)
	if err != nil {
		return events.LambdaFunctionURLResponse{}, &DependencyError{Step: StepFetch, Bucket: bucket, Err: err}
	}

	var content bytes.Buffer
	if err := json.Indent(&content, report, "", "  "); err != nil {
		return events.LambdaFunctionURLResponse{}, &DependencyError{Step: StepFetch, Bucket: bucket, Err: err}
	}

	key := ObjectKey(h.now())
	_, err = h.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content.Bytes()),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return events.LambdaFunctionURLResponse{}, &DependencyError{Step: StepWrite, Bucket: bucket, Err: err}
	}

	h.Env.logger().WithField("bucket", bucket).WithField("key", key).Info("stored weather report")
	return ok(fmt.Sprintf("Weather data for Seattle successfully written to %s/%s", bucket, key)), nil
}

// ObjectKey returns the key for a report taken at t.
func ObjectKey(t time.Time) string {
	return t.UTC().Format(KeyLayout) + ".txt"
}

func (h *Weather) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// fetch issues one GET and returns the body, which must be exactly one JSON
// document. Non-2xx statuses fail. Key order and number text are kept as
// received.
func (h *Weather) fetch(ctx context.Context) ([]byte, error) {
	url := h.URL
	if url == "" {
		url = WeatherURL
	}
	client := h.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decoding response: %w", errMalformedBody)
	}
	return raw, nil
}
