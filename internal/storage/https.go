package storage

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPSProvider reads blobs over plain HTTP(S) GET.
type HTTPSProvider struct {
	Client *http.Client
}

var _ Provider = (*HTTPSProvider)(nil)

// Fetch downloads uri and fails on any non-2xx status.
func (p *HTTPSProvider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("URI: %s returned a %d response code", uri, resp.StatusCode)
	}
	return readAll(resp.Body)
}
