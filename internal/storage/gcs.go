package storage

import (
	"context"
	"fmt"

	"github.com/googleapis/google-cloud-go-testing/storage/stiface"
)

// GCSProvider reads blobs from Google Cloud Storage.
type GCSProvider struct {
	Client stiface.Client
}

var _ Provider = (*GCSProvider)(nil)

// Fetch downloads gs://bucket/object.
func (p *GCSProvider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := splitBucketKey(uri, GCS)
	if err != nil {
		return nil, err
	}

	reader, err := p.Client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for object(%s) in bucket(%s): %w", object, bucket, err)
	}
	defer reader.Close()

	data, err := readAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object(%s) in bucket(%s): %w", object, bucket, err)
	}
	return data, nil
}
