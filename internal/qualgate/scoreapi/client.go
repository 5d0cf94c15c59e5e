// Package scoreapi submits computed quality scores to the external scoring
// service.
package scoreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client talks to the scoring service. One POST per run, no retries: a
// failed submission is reported to the caller and the run's report remains
// the source of truth.
type Client struct {
	endpoint   string
	token      string
	project    string
	httpClient *http.Client
}

// NewClient creates a scoring client for the given endpoint URL.
func NewClient(endpoint, token, project string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		project:  project,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submission is the JSON body sent to the scoring service. The service
// ingests a single number per run; the score is duplicated into both the
// quality and coverage fields because that is what the ingestion side
// expects.
type Submission struct {
	ID        string  `json:"id"`
	Token     string  `json:"token"`
	Project   string  `json:"project"`
	Timestamp string  `json:"timestamp"`
	Quality   float64 `json:"quality"`
	Coverage  float64 `json:"coverage"`
}

// Submit posts the quality score for this run and returns the submission
// that was sent. The response body is not interpreted beyond its status
// code.
func (c *Client) Submit(ctx context.Context, qualityScore float64, at time.Time) (*Submission, error) {
	sub := &Submission{
		ID:        uuid.NewString(),
		Token:     c.token,
		Project:   c.project,
		Timestamp: at.UTC().Format(time.RFC3339),
		Quality:   qualityScore,
		Coverage:  qualityScore,
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshaling submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scoring API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return sub, nil
}
