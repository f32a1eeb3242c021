// Package runway talks to the Runway image-to-video task API.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genstudio/internal/domain"
	"genstudio/internal/infra"
)

const (
	serviceName = "runway"
	// CredentialEnv names the environment variable holding the API key.
	CredentialEnv = "RUNWAY_API_KEY"
	// APIVersion is sent as X-Runway-Version on every request.
	APIVersion = "2024-11-06"
)

// Options configures the Runway client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client submits image-to-video tasks and reads their status. It satisfies
// jobs.JobService.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type imageToVideoRequest struct {
	Model       string `json:"model"`
	PromptImage string `json:"promptImage"`
	PromptText  string `json:"promptText,omitempty"`
	Ratio       string `json:"ratio,omitempty"`
	Duration    int    `json:"duration,omitempty"`
}

type taskResponse struct {
	ID      string           `json:"id"`
	Status  domain.JobStatus `json:"status"`
	Output  domain.JobOutput `json:"output"`
	Failure string           `json:"failure"`
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.dev.runwayml.com"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gen3a_turbo"
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// RatioFor maps an orientation to the frame ratio the model accepts.
func RatioFor(o domain.Orientation) string {
	if o == domain.OrientationPortrait {
		return "768:1280"
	}
	return "1280:768"
}

// Submit creates one image-to-video task and returns its id.
func (c *Client) Submit(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if !c.HasCredentials() {
		return "", &domain.CredentialError{Service: serviceName, EnvVar: CredentialEnv}
	}
	if err := domain.ValidateSourceImage(req.SourceImage); err != nil {
		return "", err
	}
	payload := imageToVideoRequest{
		Model:       c.model,
		PromptImage: strings.TrimSpace(req.SourceImage),
		PromptText:  strings.TrimSpace(req.Prompt),
		Ratio:       RatioFor(req.Orientation),
		Duration:    req.Duration,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("runway: encode request: %w", err)
	}
	var created taskResponse
	if err := c.do(ctx, http.MethodPost, "/v1/image_to_video", body, &created); err != nil {
		return "", err
	}
	if strings.TrimSpace(created.ID) == "" {
		return "", errors.New("runway: task id missing from response")
	}
	c.logger.Debug().Str("task_id", created.ID).Str("ratio", payload.Ratio).Int("duration", payload.Duration).Msg("runway: task created")
	return created.ID, nil
}

// Retrieve fetches the current snapshot of a task.
func (c *Client) Retrieve(ctx context.Context, jobID string) (domain.Job, error) {
	if !c.HasCredentials() {
		return domain.Job{}, &domain.CredentialError{Service: serviceName, EnvVar: CredentialEnv}
	}
	var task taskResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(jobID), nil, &task); err != nil {
		return domain.Job{}, err
	}
	if task.Failure != "" {
		c.logger.Warn().Str("task_id", jobID).Str("status", string(task.Status)).Str("failure", task.Failure).Msg("runway: task reported failure")
	}
	if task.ID == "" {
		task.ID = jobID
	}
	return domain.Job{ID: task.ID, Status: task.Status, Output: task.Output}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("runway: build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Runway-Version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("runway: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("runway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(raw),
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("runway: decode response: %w", err)
	}
	return nil
}
