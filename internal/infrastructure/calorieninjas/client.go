package calorieninjas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/config"
)

const baseURL = "https://api.calorieninjas.com/v1/nutrition"

// Client calls the CalorieNinjas nutrition API. Responses are passed through
// untouched; the response shape is the provider's contract, not ours.
type Client struct {
	http   *http.Client
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		apiKey: cfg.CalorieNinjasKey,
	}
}

func (c *Client) Nutrition(ctx context.Context, query string) (json.RawMessage, error) {
	u := baseURL + "?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calorieninjas get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calorieninjas get: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("calorieninjas read body: %w", err)
	}
	return json.RawMessage(body), nil
}
