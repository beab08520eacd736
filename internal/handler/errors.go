package handler

import (
	"errors"
	"fmt"
)

// ErrConfigurationMissing is returned when BUCKET_NAME is unset or empty.
var ErrConfigurationMissing = errors.New("BUCKET_NAME environment variable is missing")

// Step names the outbound call a DependencyError came from.
type Step string

const (
	StepListObjects Step = "list objects"
	StepFetch       Step = "fetch weather data"
	StepWrite       Step = "write file"
)

// DependencyError is a failed call to S3 or to the weather endpoint. The
// cause is kept for errors.Is and errors.As.
type DependencyError struct {
	Step   Step
	Bucket string
	Err    error
}

func (e *DependencyError) Error() string {
	switch e.Step {
	case StepListObjects:
		return fmt.Sprintf("failed to list objects in bucket %s: %v", e.Bucket, e.Err)
	case StepWrite:
		return fmt.Sprintf("failed to write file to bucket %s: %v", e.Bucket, e.Err)
	case StepFetch:
		return fmt.Sprintf("failed to fetch weather data: %v", e.Err)
	default:
		return fmt.Sprintf("failed to %s: %v", e.Step, e.Err)
	}
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
