package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-sync/core/export"
)

// Client talks to the downstream catalog over HTTP. It satisfies
// export.Client and export.Deleter.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg Config) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	header := cfg.ApiKeyHeader
	if header == "" {
		header = "X-API-Key"
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.ApiKey,
		apiKeyHdr: header,
		http:      &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	Entities []export.Entity `json:"entities"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// SubmitBatch posts one batch to the bulk-import endpoint and returns the
// opaque job id the catalog assigned. Acceptance says nothing about the
// outcome; callers must poll JobStatus until the job is terminal.
func (c *Client) SubmitBatch(ctx context.Context, entities []export.Entity) (string, error) {
	body, err := json.Marshal(submitRequest{Entities: entities})
	if err != nil {
		return "", err
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/v1/import/batches", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var parsed submitResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding submit response: %w", err)
	}
	if parsed.JobID == "" {
		return "", fmt.Errorf("catalog accepted the batch but returned no job id")
	}
	return parsed.JobID, nil
}

// JobStatus fetches the current state of an import job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (export.JobStatus, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return export.JobStatus{}, err
	}

	var status export.JobStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return export.JobStatus{}, fmt.Errorf("decoding job status: %w", err)
	}
	return status, nil
}

// DeleteEntity removes one entity from the downstream catalog. A 404 is
// treated as success: the entity is gone either way.
func (c *Client) DeleteEntity(ctx context.Context, entityType, externalID, scope string) error {
	path := fmt.Sprintf("/api/v1/entities/%s/%s?scope=%s",
		url.PathEscape(entityType), url.PathEscape(externalID), url.QueryEscape(scope))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHdr, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}
