package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/emurenMRz/mpbody/internal/mpbody"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewRequest builds m and wraps the body and computed headers in a POST request.
func NewRequest(ctx context.Context, url string, m *mpbody.Message) (*http.Request, error) {
	body, headers, err := m.Build()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	for _, h := range headers {
		req.Header.Add(h.Name, h.Value)
	}
	req.ContentLength = int64(len(body))
	return req, nil
}

// Post builds m and sends it with client. The caller closes the response body.
func Post(ctx context.Context, client Doer, url string, m *mpbody.Message) (*http.Response, error) {
	req, err := NewRequest(ctx, url, m)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	return resp, nil
}
