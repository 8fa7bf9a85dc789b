package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxAssetSize bounds how much of a template response is read into memory.
const maxAssetSize = 32 << 20

// Client downloads binary assets such as certificate templates
type Client interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type clientImpl struct {
	http *http.Client
}

// NewClient creates a client whose requests give up after timeout
func NewClient(timeout time.Duration) Client {
	return &clientImpl{
		http: &http.Client{Timeout: timeout},
	}
}

func (c *clientImpl) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if len(body) > maxAssetSize {
		return nil, fmt.Errorf("error fetching %s: asset larger than %d bytes", url, maxAssetSize)
	}

	return body, nil
}
