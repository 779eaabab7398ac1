// Package docintel is the HTTP client for the external document-understanding
// service. The service is a black box: PDF bytes in, a mapping of free-text
// field labels to values out. Every call is bounded by a timeout and wrapped
// in the resilience executor.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/resilience"
)

const defaultTimeout = 60 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type extractResponse struct {
	Fields map[string]string `json:"fields"`
}

// ExtractFields submits one PDF chunk and returns the raw label/value map.
// Labels are untrusted; callers filter them against their synonym table.
func (c *Client) ExtractFields(ctx context.Context, pdf []byte) (map[string]string, error) {
	var fields map[string]string
	call := func(callCtx context.Context) error {
		var err error
		fields, err = c.extract(callCtx, pdf)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "docintel.extract", call, classifyExtractError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) extract(ctx context.Context, pdf []byte) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docintel extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{
			Operation:  "extract",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}
	return parsed.Fields, nil
}
