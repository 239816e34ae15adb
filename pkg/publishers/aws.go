package publishers

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the default AWS chain for region, pinning static
// credentials when the publisher config provides them.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}

// stringAttributes converts event attributes into an SDK specific attribute map.
// SQS and SNS each define their own MessageAttributeValue type.
func stringAttributes[T any](attrs map[string]string, build func(dataType, value *string) T) map[string]T {
	out := make(map[string]T, len(attrs))
	for k, v := range attrs {
		out[k] = build(aws.String("String"), aws.String(v))
	}
	return out
}

func formatPersonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
