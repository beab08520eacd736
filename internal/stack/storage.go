package stack

import (
	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/resources/s3"
)

// NewBucket declares the private bucket shared by every handler variant.
func NewBucket(cfg *config.Config) *s3.Bucket {
	return &s3.Bucket{
		AccessControl: "Private",
		Tags:          tags(cfg),
	}
}
