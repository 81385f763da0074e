package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Provider reads blobs from Amazon S3 or an S3-compatible endpoint.
type S3Provider struct {
	Client s3iface.S3API
}

var _ Provider = (*S3Provider)(nil)

// Fetch downloads s3://bucket/key.
func (p *S3Provider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := splitBucketKey(uri, S3)
	if err != nil {
		return nil, err
	}

	out, err := p.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s from bucket %s: %w", key, bucket, err)
	}
	defer out.Body.Close()
	return readAll(out.Body)
}
