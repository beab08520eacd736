package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultPageSize is the largest page ListObjectsV2 returns.
const DefaultPageSize = 1000

// ListObjectsAPI is the subset of the S3 client used by Count.
type ListObjectsAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ ListObjectsAPI = (*s3.Client)(nil)

// Count answers with the number of objects in the bucket, across all pages.
type Count struct {
	Env      Env
	S3       ListObjectsAPI
	PageSize int32
}

// Handle implements Handler.
func (h *Count) Handle(ctx context.Context, _ json.RawMessage) (events.LambdaFunctionURLResponse, error) {
	bucket, err := h.Env.bucket()
	if err != nil {
		return events.LambdaFunctionURLResponse{}, err
	}

	total, err := h.count(ctx, bucket)
	if err != nil {
		return events.LambdaFunctionURLResponse{}, &DependencyError{Step: StepListObjects, Bucket: bucket, Err: err}
	}

	h.Env.logger().WithField("bucket", bucket).WithField("count", total).Info("counted objects")
	return ok(fmt.Sprintf("Bucket %s contains %d objects.", bucket, total)), nil
}

func (h *Count) count(ctx context.Context, bucket string) (int, error) {
	pageSize := h.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	paginator := s3.NewListObjectsV2Paginator(h.S3, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(pageSize),
	})

	total := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		total += len(page.Contents)
	}
	return total, nil
}
