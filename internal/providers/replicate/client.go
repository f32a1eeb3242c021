package replicate

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

	"genstudio/internal/domain"
	"genstudio/internal/infra"
)

const (
	serviceName = "replicate"
	// CredentialEnv names the environment variable holding the API token.
	CredentialEnv = "REPLICATE_API_TOKEN"
)

// Options configures the Replicate prediction client.
type Options struct {
	APIToken       string
	BaseURL        string
	Version        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client creates synchronous predictions on Replicate.
type Client struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	logger     *infra.Logger
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt string `json:"prompt"`
}

type predictionResponse struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	VideoURL string           `json:"video_url"`
	Output   domain.JobOutput `json:"output"`
	Error    json.RawMessage  `json:"error"`
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "lucataco/animate-diff:beecf59c4aee8d81bf04f0381033dfa10dc16e845b4ae00d281e2fa377e48a9f"
	}
	return &Client{
		token:      strings.TrimSpace(opts.APIToken),
		baseURL:    baseURL,
		version:    version,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.token != ""
}

// Predict runs the configured model version on prompt and returns the video
// URL. The request asks Replicate to hold the connection until the
// prediction finishes.
func (c *Client) Predict(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", &domain.CredentialError{Service: serviceName, EnvVar: CredentialEnv}
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	body, err := json.Marshal(predictionRequest{Version: c.version, Input: predictionInput{Prompt: prompt}})
	if err != nil {
		return "", fmt.Errorf("replicate: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+c.token)
	httpReq.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(raw),
		}
	}

	var decoded predictionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("replicate: decode response: %w", err)
	}
	videoURL := strings.TrimSpace(decoded.VideoURL)
	if videoURL == "" {
		videoURL = domain.Job{Output: decoded.Output}.FirstOutput()
	}
	if videoURL == "" {
		if len(decoded.Error) > 0 && string(decoded.Error) != "null" {
			return "", fmt.Errorf("replicate: prediction %s %s: %s", decoded.ID, decoded.Status, string(decoded.Error))
		}
		return "", errors.New("replicate: prediction returned no video url")
	}
	c.logger.Debug().Str("prediction_id", decoded.ID).Str("status", decoded.Status).Msg("replicate: prediction finished")
	return videoURL, nil
}
