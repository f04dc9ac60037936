// Package off is a thin client for the public Open Food Facts service,
// used as a read-through fallback when a barcode misses the local
// database.
package off

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const userAgent = "foodfacts-api - Server - Version 0.9"

// Client wraps an HTTP client for the upstream product API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new upstream client. The timeout bounds every
// lookup; there are no retries at this layer.
func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		client:  client,
	}
}

// GetProduct fetches the product envelope for a barcode from the
// upstream service. The envelope is returned as-is (including its
// status field); the caller decides whether it counts as a hit.
func (c *Client) GetProduct(ctx context.Context, barcode string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "upstream product lookup failed")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("upstream product lookup returned status %d",
			response.StatusCode)
	}

	var envelope map[string]interface{}
	err = json.NewDecoder(response.Body).Decode(&envelope)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode upstream product envelope")
	}

	return envelope, nil
}
