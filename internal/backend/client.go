package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/pkg/errors"
)

const idempotencyHeader = "Idempotency-Key"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new storefront backend REST client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	// Normalize base URL - default to http:// and drop trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// request describes one call to the backend
type request struct {
	method         string
	path           string
	token          string
	idempotencyKey string
	body           interface{}
}

// do executes a request and returns the raw response body of a 2xx answer.
// 401 maps to ErrAuthRequired, 403 to ErrForbidden, 404 to ErrNotFound, any other non-2xx to ErrBackendRejected.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	var reader io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, r.idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Backend call",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &errors.ErrAuthRequired{Message: "backend rejected session token"}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &errors.ErrForbidden{Message: string(body)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &errors.ErrNotFound{Resource: "resource", ID: r.path}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &errors.ErrBackendRejected{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// getJSON performs a GET and decodes the answer into out
func (c *Client) getJSON(ctx context.Context, path, token string, out interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
