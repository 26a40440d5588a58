package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxErrorBody caps how much of a failed response body ends up in the error.
const maxErrorBody = 512

// HTTPFetcher downloads the CSV with a plain GET.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
func NewHTTPFetcher(rawURL, proxyURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http " + f.URL }

func (f *HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", f.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("get %s: status %d, body: %s", f.URL, resp.StatusCode, string(body))
	}
	return resp.Body, nil
}
