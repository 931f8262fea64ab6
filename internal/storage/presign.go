// Package storage talks to the two external stores sightings depend on:
// the presigning service that turns object keys into viewable URLs, and
// the object store that holds the uploaded photos themselves.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cryptidwatch/pkg/utils"
)

// Presigner exchanges stored object keys for short-lived viewable URLs.
type Presigner interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}

// PresignClient calls the external presigning endpoint over HTTP. Keys are
// resolved one request per key; a single failure fails the whole lookup
// rather than returning a partial set.
type PresignClient struct {
	Endpoint string
	Client   *http.Client
}

// NewPresignClient builds a client with a hard per-request timeout so a
// slow presigner cannot stall sighting reads indefinitely.
func NewPresignClient(endpoint string, timeout time.Duration) *PresignClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PresignClient{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type presignRequest struct {
	Key string `json:"key"`
}

type presignResponse struct {
	URL string `json:"url"`
}

// PresignedURL resolves one object key to a URL.
func (p *PresignClient) PresignedURL(ctx context.Context, key string) (string, error) {
	body, err := json.Marshal(presignRequest{Key: key})
	if err != nil {
		return "", utils.InternalError("Failed to encode presign request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", utils.InternalError("Failed to build presign request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", utils.DependencyError("Image URL service unavailable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.DependencyError(fmt.Sprintf("Image URL service returned status %d", resp.StatusCode))
	}

	var out presignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", utils.DependencyError("Image URL service returned malformed response").WithCause(err)
	}
	if out.URL == "" {
		return "", utils.DependencyError("Image URL service returned empty URL")
	}
	return out.URL, nil
}

// PresignAll resolves every key in order. Any failure aborts the batch.
func PresignAll(ctx context.Context, p Presigner, keys []string) ([]string, error) {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := p.PresignedURL(ctx, key)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
