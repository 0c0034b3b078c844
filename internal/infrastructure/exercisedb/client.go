package exercisedb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/config"
	"github.com/fitfusion/fitfusion-api/internal/domain"
)

const defaultBaseURL = "https://exercisedb.p.rapidapi.com"

// Client calls the ExerciseDB API on RapidAPI.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	apiHost string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  cfg.RapidAPIKey,
		apiHost: cfg.RapidAPIHost,
	}
}

func (c *Client) BodyPartList(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/exercises/bodyPartList", &out)
	return out, err
}

func (c *Client) EquipmentList(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/exercises/equipmentList", &out)
	return out, err
}

func (c *Client) TargetList(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/exercises/targetList", &out)
	return out, err
}

// Search queries exercises by one attribute. searchType must be one of
// name, bodyPart, equipment or target; the caller validates it.
func (c *Client) Search(ctx context.Context, searchType, query string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	err := c.get(ctx, fmt.Sprintf("/exercises/%s/%s", searchType, url.PathEscape(query)), &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("exercisedb get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exercisedb get %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("exercisedb decode %s: %w", path, err)
	}
	return nil
}
