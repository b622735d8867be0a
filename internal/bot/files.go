package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// URLResolver maps a file id to a downloadable URL; *tgbotapi.BotAPI satisfies it.
type URLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// DirectFileFetcher downloads files through the Bot API file endpoint.
type DirectFileFetcher struct {
	Resolver   URLResolver
	HTTPClient *http.Client
}

// NewDirectFileFetcher constructs a fetcher with a bounded HTTP client.
func NewDirectFileFetcher(resolver URLResolver, timeout time.Duration) *DirectFileFetcher {
	return &DirectFileFetcher{Resolver: resolver, HTTPClient: &http.Client{Timeout: timeout}}
}

// Fetch returns the file body. The caller closes it.
func (f *DirectFileFetcher) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := f.Resolver.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
