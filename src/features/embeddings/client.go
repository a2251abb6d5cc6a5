package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// maxInputBytes truncates very large files before shipping them to the
// embedding server; the preview loses nothing meaningful.
const maxInputBytes = 32 << 10

// Client talks to a local text-embeddings server (text-embeddings-inference
// compatible: POST {"inputs": text} returns [[float,...]]).
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given embed endpoint.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type embedRequest struct {
	Inputs string `json:"inputs"`
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if len(text) > maxInputBytes {
		text = text[:maxInputBytes]
	}

	body, err := json.Marshal(embedRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embed server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed server returned %s", resp.Status)
	}

	// the server returns one vector per input, wrapped in an outer array
	var vectors [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed server returned no vectors")
	}
	return vectors[0], nil
}
