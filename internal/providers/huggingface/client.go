package huggingface

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
	serviceName = "huggingface"
	// CredentialEnv names the environment variable holding the API key.
	CredentialEnv = "HF_API_KEY"
)

// Options configures the Hugging Face inference client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client calls the hosted text-to-image inference endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageRequest captures the inputs of one text-to-image call.
type ImageRequest struct {
	Prompt   string
	Width    int
	Height   int
	Steps    int
	Guidance float64
	Seed     int
}

// Image is the raw image returned by the endpoint.
type Image struct {
	Data        []byte
	ContentType string
}

type inferenceRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters inferenceParams  `json:"parameters"`
	Options    inferenceOptions `json:"options"`
}

type inferenceParams struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	Seed              *int    `json:"seed,omitempty"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 3 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	model := strings.Trim(strings.TrimSpace(opts.Model), "/")
	if model == "" {
		model = "stabilityai/stable-diffusion-3.5-large"
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// TextToImage renders one image. The seed is omitted when it is
// domain.RandomSeed so the endpoint picks one.
func (c *Client) TextToImage(ctx context.Context, req ImageRequest) (*Image, error) {
	if !c.HasCredentials() {
		return nil, &domain.CredentialError{Service: serviceName, EnvVar: CredentialEnv}
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	payload := inferenceRequest{
		Inputs: prompt,
		Parameters: inferenceParams{
			Width:             req.Width,
			Height:            req.Height,
			NumInferenceSteps: req.Steps,
			GuidanceScale:     req.Guidance,
		},
		Options: inferenceOptions{WaitForModel: true},
	}
	if req.Seed != domain.RandomSeed {
		seed := req.Seed
		payload.Parameters.Seed = &seed
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("huggingface: encode request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + c.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("huggingface: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("huggingface: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{UpstreamError: domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(raw),
		}}
	}
	if len(raw) == 0 {
		return nil, errors.New("huggingface: empty image body")
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       "response is not an image (" + contentType + "): " + truncate(string(raw), 512),
		}
	}
	c.logger.Debug().
		Str("model", c.model).
		Int("bytes", len(raw)).
		Dur("took", time.Since(start)).
		Msg("huggingface: generated image")
	return &Image{Data: raw, ContentType: contentType}, nil
}

// FetchError is a non-success inference response. Its message keeps the
// "Failed to fetch image" wording clients already display.
type FetchError struct {
	domain.UpstreamError
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch image: %d %s - %s", e.StatusCode, e.Status, strings.TrimSpace(e.Body))
}

func (e *FetchError) Unwrap() error { return &e.UpstreamError }

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
