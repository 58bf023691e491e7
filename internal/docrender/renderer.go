// Package docrender talks to the external document-generation API and the
// object store that holds the rendered files. The core only ever sees the
// interfaces; network details stay here.
package docrender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Renderer submits a payload against a template and returns the rendered PDF
// bytes once the provider finishes the job.
type Renderer interface {
	Render(ctx context.Context, templateID string, payload any) ([]byte, error)
}

// HTTPRenderer drives a submit-then-poll document API: Submit returns a job
// id, Poll reports progress until a download URL appears. Polling is bounded;
// a slow provider fails the render rather than hanging the caller.
type HTTPRenderer struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollAttempts int
	pollInterval time.Duration
}

func NewHTTPRenderer(baseURL, apiKey string, timeout time.Duration, pollAttempts int, pollInterval time.Duration) *HTTPRenderer {
	if pollAttempts <= 0 {
		pollAttempts = 10
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &HTTPRenderer{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: timeout},
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
	}
}

type submitRequest struct {
	TemplateID string `json:"template_id"`
	Payload    any    `json:"payload"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type pollResponse struct {
	Status      string `json:"status"` // "pending", "done", "failed"
	DownloadURL string `json:"download_url"`
	Error       string `json:"error"`
}

func (r *HTTPRenderer) Render(ctx context.Context, templateID string, payload any) ([]byte, error) {
	jobID, err := r.submit(ctx, templateID, payload)
	if err != nil {
		return nil, err
	}

	downloadURL, err := r.awaitJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return r.download(ctx, downloadURL)
}

func (r *HTTPRenderer) submit(ctx context.Context, templateID string, payload any) (string, error) {
	body, err := json.Marshal(submitRequest{TemplateID: templateID, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/render", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit render job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("submit render job: unexpected status %d", resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("render provider returned empty job id")
	}
	return out.JobID, nil
}

func (r *HTTPRenderer) awaitJob(ctx context.Context, jobID string) (string, error) {
	for attempt := 0; attempt < r.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.pollInterval):
			}
		}

		status, err := r.poll(ctx, jobID)
		if err != nil {
			return "", err
		}
		switch status.Status {
		case "done":
			return status.DownloadURL, nil
		case "failed":
			return "", fmt.Errorf("render job %s failed: %s", jobID, status.Error)
		}
	}
	return "", fmt.Errorf("render job %s did not finish after %d polls", jobID, r.pollAttempts)
}

func (r *HTTPRenderer) poll(ctx context.Context, jobID string) (*pollResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/v1/render/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll render job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll render job: unexpected status %d", resp.StatusCode)
	}

	var out pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &out, nil
}

func (r *HTTPRenderer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download rendered document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download rendered document: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
