// Package storage fetches weight blobs from local files and object stores.
//
// Supported URIs:
//
//	/path/to/policy.bin, file:///path/to/policy.bin
//	s3://bucket/key
//	gs://bucket/object
//	azure://<account>.blob.core.windows.net/<container>/<blob>
//	https://<account>.blob.core.windows.net/<container>/<blob>
//	http(s)://host/path
//
// Cloud clients are created lazily, on the first fetch for their protocol,
// and read credentials from the standard environment of each SDK.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	gstorage "cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/go-logr/logr"
	"github.com/googleapis/google-cloud-go-testing/storage/stiface"
	"google.golang.org/api/option"
)

// Environment variables read when building cloud clients.
const (
	AWSEndpointURL         = "AWS_ENDPOINT_URL"
	AWSRegion              = "AWS_DEFAULT_REGION"
	AWSAnonymousCredential = "AWS_ANONYMOUS_CREDENTIAL"
	S3UseVirtualBucket     = "S3_USE_VIRTUAL_BUCKET"
	GCSCredentialEnvKey    = "GOOGLE_APPLICATION_CREDENTIALS" // #nosec G101
	AzureAnonymous         = "AZURE_STORAGE_ANONYMOUS"
)

// httpTimeout bounds plain HTTP(S) downloads in addition to the caller's context.
const httpTimeout = 5 * time.Minute

// Storage dispatches fetches to a Provider per protocol.
type Storage struct {
	mu        sync.Mutex
	providers map[Protocol]Provider
	log       logr.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger for fetch messages.
func WithLogger(log logr.Logger) Option {
	return func(s *Storage) {
		s.log = log
	}
}

// WithProvider registers p for protocol, replacing the default client.
func WithProvider(protocol Protocol, p Provider) Option {
	return func(s *Storage) {
		s.providers[protocol] = p
	}
}

// New returns a Storage with no clients created yet.
func New(opts ...Option) *Storage {
	s := &Storage{
		providers: map[Protocol]Provider{File: FileProvider{}},
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch reads the blob at uri.
func (s *Storage) Fetch(ctx context.Context, uri string) ([]byte, error) {
	protocol, err := ProtocolOf(uri)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	provider, err := GetProvider(ctx, s.providers, protocol)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", protocol, err)
	}

	start := time.Now()
	data, err := provider.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	s.log.V(1).Info("fetched weight blob", "uri", uri, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// GetProvider returns the provider for protocol from providers, creating
// and caching the default one if absent.
func GetProvider(ctx context.Context, providers map[Protocol]Provider, protocol Protocol) (Provider, error) {
	if provider, ok := providers[protocol]; ok {
		return provider, nil
	}

	switch protocol {
	case File:
		providers[File] = FileProvider{}
	case GCS:
		var gcsClient *gstorage.Client
		var err error

		if _, ok := os.LookupEnv(GCSCredentialEnvKey); ok {
			gcsClient, err = gstorage.NewClient(ctx)
		} else {
			gcsClient, err = gstorage.NewClient(ctx, option.WithoutAuthentication())
		}
		if err != nil {
			return nil, err
		}

		providers[GCS] = &GCSProvider{
			Client: stiface.AdaptClient(gcsClient),
		}
	case S3:
		region, _ := os.LookupEnv(AWSRegion)
		useVirtualBucket := true
		if v, ok := os.LookupEnv(S3UseVirtualBucket); ok && strings.ToLower(v) == "false" {
			useVirtualBucket = false
		}

		awsConfig := aws.Config{
			Region:           aws.String(region),
			S3ForcePathStyle: aws.Bool(!useVirtualBucket),
		}
		if endpoint, ok := os.LookupEnv(AWSEndpointURL); ok {
			awsConfig.Endpoint = aws.String(endpoint)
		}
		if v, ok := os.LookupEnv(AWSAnonymousCredential); ok && strings.ToLower(v) == "true" {
			awsConfig.Credentials = credentials.AnonymousCredentials
		}

		sess, err := session.NewSession(&awsConfig)
		if err != nil {
			return nil, err
		}
		providers[S3] = &S3Provider{
			Client: s3.New(sess),
		}
	case Azure:
		providers[Azure] = &AzureProvider{
			NewClient: newAzureClient,
		}
	case HTTPS, HTTP:
		providers[protocol] = &HTTPSProvider{
			Client: &http.Client{Timeout: httpTimeout},
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, protocol)
	}

	return providers[protocol], nil
}

// newAzureClient authenticates with the default Azure credential chain
// unless AZURE_STORAGE_ANONYMOUS is true.
func newAzureClient(serviceURL string) (AzureClient, error) {
	var client *azblob.Client
	var err error

	if v, ok := os.LookupEnv(AzureAnonymous); ok && strings.ToLower(v) == "true" {
		client, err = azblob.NewClientWithNoCredential(serviceURL, nil)
	} else {
		var cred *azidentity.DefaultAzureCredential
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, err
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
