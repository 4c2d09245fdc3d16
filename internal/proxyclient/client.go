package proxyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"topic-pulse/internal/gateway"
)

const maxBodyBytes = 8 << 20

// Client reaches a proxy gateway over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the gateway at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Get performs one gateway call and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, req gateway.Request) ([]byte, error) {
	endpoint := c.baseURL + "/proxy?" + req.Query().Encode()
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("proxy: status %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("proxy: status %d", resp.StatusCode)
	}
	return body, nil
}
