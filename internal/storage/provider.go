package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// MaxBlobSize bounds the number of bytes read from any provider.
const MaxBlobSize = 1 << 30 // 1 GiB

// Provider fetches a weight blob.
type Provider interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Protocol identifies a storage backend by URI prefix.
type Protocol string

const (
	File  Protocol = "file://"
	S3    Protocol = "s3://"
	GCS   Protocol = "gs://"
	Azure Protocol = "azure://"
	HTTPS Protocol = "https://"
	HTTP  Protocol = "http://"
)

// azureBlobHost is the host suffix of Azure Blob Storage service URLs.
const azureBlobHost = ".blob.core.windows.net"

var SupportedProtocols = []Protocol{File, S3, GCS, Azure, HTTPS, HTTP}

// GetAllProtocol returns the supported URI prefixes.
func GetAllProtocol() (protocols []string) {
	for _, protocol := range SupportedProtocols {
		protocols = append(protocols, string(protocol))
	}
	return protocols
}

// ProtocolOf returns the protocol for uri. A string without a scheme is a
// local path. HTTPS URLs on an Azure Blob Storage host map to Azure.
func ProtocolOf(uri string) (Protocol, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: empty uri", ErrInvalidURI)
	}
	if !strings.Contains(uri, "://") {
		return File, nil
	}
	for _, protocol := range SupportedProtocols {
		if !strings.HasPrefix(uri, string(protocol)) {
			continue
		}
		if protocol == HTTPS && isAzureBlobURL(uri) {
			return Azure, nil
		}
		return protocol, nil
	}
	return "", fmt.Errorf("%w: %s, supported: %s", ErrUnsupportedProtocol, uri, strings.Join(GetAllProtocol(), ", "))
}

func isAzureBlobURL(uri string) bool {
	host, _, _ := strings.Cut(strings.TrimPrefix(uri, string(HTTPS)), "/")
	return strings.HasSuffix(strings.ToLower(host), azureBlobHost)
}

// readAll reads r up to MaxBlobSize bytes.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBlobSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxBlobSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBlobTooLarge, MaxBlobSize)
	}
	return data, nil
}

// splitBucketKey splits "bucket/key/parts" after the scheme prefix.
func splitBucketKey(uri string, protocol Protocol) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, string(protocol)), "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %s: want %sbucket/object", ErrInvalidURI, uri, protocol)
	}
	return bucket, key, nil
}
