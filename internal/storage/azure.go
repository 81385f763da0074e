package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureClient is the subset of *azblob.Client used to fetch blobs.
type AzureClient interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

var _ AzureClient = (*azblob.Client)(nil)

// AzureProvider reads blobs from Azure Blob Storage. Clients are created
// per storage account on first use.
type AzureProvider struct {
	NewClient func(serviceURL string) (AzureClient, error)

	mu      sync.Mutex
	clients map[string]AzureClient
}

var _ Provider = (*AzureProvider)(nil)

type azureURIParts struct {
	serviceURL    string
	containerName string
	blobName      string
}

// parseAzureURI accepts azure://<account>.blob.core.windows.net/<container>/<blob>
// and the equivalent https:// form.
func parseAzureURI(uri string) (azureURIParts, error) {
	var rest string
	switch {
	case strings.HasPrefix(uri, string(Azure)):
		rest = strings.TrimPrefix(uri, string(Azure))
	case strings.HasPrefix(uri, string(HTTPS)):
		rest = strings.TrimPrefix(uri, string(HTTPS))
	default:
		return azureURIParts{}, fmt.Errorf("%w: %s is not an azure uri", ErrInvalidURI, uri)
	}

	parts := strings.SplitN(strings.TrimSuffix(rest, "/"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return azureURIParts{}, fmt.Errorf("%w: %s: want <account>%s/<container>/<blob>", ErrInvalidURI, uri, azureBlobHost)
	}
	if !strings.HasSuffix(strings.ToLower(parts[0]), azureBlobHost) {
		return azureURIParts{}, fmt.Errorf("%w: %s: host is not an azure blob endpoint", ErrInvalidURI, uri)
	}

	return azureURIParts{
		serviceURL:    "https://" + parts[0],
		containerName: parts[1],
		blobName:      parts[2],
	}, nil
}

// Fetch downloads one blob.
func (p *AzureProvider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	parts, err := parseAzureURI(uri)
	if err != nil {
		return nil, err
	}
	client, err := p.client(parts.serviceURL)
	if err != nil {
		return nil, err
	}

	resp, err := client.DownloadStream(ctx, parts.containerName, parts.blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download blob %s from container %s: %w", parts.blobName, parts.containerName, err)
	}
	defer resp.Body.Close()
	return readAll(resp.Body)
}

func (p *AzureProvider) client(serviceURL string) (AzureClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[serviceURL]; ok {
		return c, nil
	}
	c, err := p.NewClient(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("create azure client for %s: %w", serviceURL, err)
	}
	if p.clients == nil {
		p.clients = make(map[string]AzureClient)
	}
	p.clients[serviceURL] = c
	return c, nil
}
