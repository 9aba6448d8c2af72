package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/machinebox/graphql"
)

const userAgent = "aha-mcp"

// Client talks to one Aha! account: GraphQL for records and mutations,
// REST (/api/v1) for workflows, users and ideas. Every method performs
// exactly one HTTP request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string

	gql *graphql.Client
	log *slog.Logger
}

// NewClient creates a client for cfg. logger may be nil.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return NewClientWithHTTP(cfg.APIBaseURL(), cfg.APIToken, &http.Client{Timeout: 30 * time.Second}, logger)
}

// NewClientWithHTTP is NewClient with an explicit base URL and http.Client.
func NewClientWithHTTP(baseURL, apiKey string, hc *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: hc,
		APIKey:     apiKey,
		log:        logger,
	}
	c.gql = graphql.NewClient(baseURL+"/api/v2/graphql", graphql.WithHTTPClient(hc))
	c.gql.Log = func(s string) { logger.Debug(s, "component", "graphql") }
	return c
}

// makeRequest makes a REST request against /api/v1 and returns the body.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	url := c.BaseURL + "/api/v1" + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	return respBody, nil
}

// run executes a GraphQL document and decodes its data into out.
func (c *Client) run(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("User-Agent", userAgent)

	if err := c.gql.Run(ctx, req, out); err != nil {
		return err
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
