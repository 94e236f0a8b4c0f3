package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Run is one experiment run logged to the tracking server.
type Run struct {
	RunID      string             `json:"run_id"`
	Name       string             `json:"name"`
	Experiment string             `json:"experiment"`
	Params     map[string]string  `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Tags       map[string]string  `json:"tags,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
}

// Client records pipeline runs on an external tracking server.
type Client interface {
	LogRun(ctx context.Context, run *Run) error
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) LogRun(ctx context.Context, run *Run) error {
	if c == nil || c.baseURL == "" {
		return errors.New("tracking client disabled")
	}

	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/runs", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call tracking server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return fmt.Errorf("tracking server error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
