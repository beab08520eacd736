package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// Pseudo-parameters are predefined by CloudFormation and resolved per stack.
//
// AWS_PARTITION keeps managed policy ARNs valid in aws-cn and aws-us-gov.
// AWS_REGION is a Ref to AWS::Region; references to pseudo-parameters are
// never dependency edges.
var (
	AWS_PARTITION = intrinsics.AWS_PARTITION
	AWS_REGION    = intrinsics.AWS_REGION
)
