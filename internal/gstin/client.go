package gstin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Details is what the lookup API returns for one GSTIN.
type Details struct {
	GSTIN     string `json:"gstin"`
	LegalName string `json:"legal_name"`
	Status    string `json:"status"`
}

// Client calls an external GSTIN lookup API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a lookup client. A zero timeout defaults to 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches details for one GSTIN.
func (c *Client) Lookup(ctx context.Context, gstin string) (*Details, error) {
	endpoint := fmt.Sprintf("%s/v1/gstin/%s", c.baseURL, url.PathEscape(gstin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gstin: lookup %s: %w", gstin, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gstin: lookup %s: unexpected status %d", gstin, resp.StatusCode)
	}

	var details Details
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("gstin: decode lookup response: %w", err)
	}
	return &details, nil
}
