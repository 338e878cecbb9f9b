// Package objstore uploads audio artifacts to a Supabase-compatible storage
// service over its REST API.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Bucket names used by the service. Chunk audio and merged episodes live in
// separate buckets so retention policies can differ.
const (
	BucketChunks = "podcast_audio"
	BucketMerged = "merged_podcasts"
)

// Client uploads objects and derives their public URLs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// NewClient creates a storage client for the given project URL and service
// key. A nil httpClient gets a default with an upload-sized timeout.
func NewClient(baseURL, apiKey string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, httpClient: httpClient}
}

// Upload stores data under the given bucket and name, overwriting any
// existing object, and returns the object's public URL.
func (c *Client) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("storage url not configured")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(bucket, name), nil
}

// PublicURL returns the public address of an object in a public bucket.
func (c *Client) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, url.PathEscape(name))
}
