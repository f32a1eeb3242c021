package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"genstudio/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newResponse(status int, contentType string, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func TestTextToImageMissingKeyMakesNoCall(t *testing.T) {
	calls := 0
	client := NewClient(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return newResponse(http.StatusOK, "image/png", []byte("png")), nil
	})}})

	_, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "a cat"})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(err.Error(), "HF_API_KEY") {
		t.Fatalf("error %q does not name HF_API_KEY", err.Error())
	}
	if calls != 0 {
		t.Fatalf("transport called %d times, want 0", calls)
	}
}

func TestTextToImagePayload(t *testing.T) {
	var captured map[string]any
	var auth, path string
	client := NewClient(Options{
		APIKey:  "hf_test",
		BaseURL: "https://hf.example.com/",
		Model:   "org/model",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			auth = r.Header.Get("Authorization")
			path = r.URL.String()
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			return newResponse(http.StatusOK, "image/jpeg", []byte{0xff, 0xd8, 0xff}), nil
		})},
	})

	img, err := client.TextToImage(context.Background(), ImageRequest{
		Prompt: "a lighthouse", Width: 768, Height: 512, Steps: 25, Guidance: 8.5, Seed: 42,
	})
	if err != nil {
		t.Fatalf("TextToImage error: %v", err)
	}
	if img.ContentType != "image/jpeg" || len(img.Data) != 3 {
		t.Fatalf("image = %q/%d bytes", img.ContentType, len(img.Data))
	}
	if auth != "Bearer hf_test" {
		t.Fatalf("Authorization = %q", auth)
	}
	if path != "https://hf.example.com/models/org/model" {
		t.Fatalf("endpoint = %q", path)
	}
	if captured["inputs"] != "a lighthouse" {
		t.Fatalf("inputs = %v", captured["inputs"])
	}
	params := captured["parameters"].(map[string]any)
	if params["width"] != float64(768) || params["height"] != float64(512) {
		t.Fatalf("dimensions = %v x %v", params["width"], params["height"])
	}
	if params["num_inference_steps"] != float64(25) || params["guidance_scale"] != 8.5 {
		t.Fatalf("steps/guidance = %v/%v", params["num_inference_steps"], params["guidance_scale"])
	}
	if params["seed"] != float64(42) {
		t.Fatalf("seed = %v", params["seed"])
	}
	options := captured["options"].(map[string]any)
	if options["wait_for_model"] != true {
		t.Fatalf("wait_for_model = %v", options["wait_for_model"])
	}
}

func TestTextToImageOmitsRandomSeed(t *testing.T) {
	var captured map[string]any
	client := NewClient(Options{
		APIKey: "hf_test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			_ = json.NewDecoder(r.Body).Decode(&captured)
			return newResponse(http.StatusOK, "image/png", []byte("\x89PNG")), nil
		})},
	})

	if _, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "x", Seed: domain.RandomSeed}); err != nil {
		t.Fatalf("TextToImage error: %v", err)
	}
	params := captured["parameters"].(map[string]any)
	if _, ok := params["seed"]; ok {
		t.Fatalf("seed should be omitted, got %v", params["seed"])
	}
}

func TestTextToImageUpstreamFailure(t *testing.T) {
	client := NewClient(Options{
		APIKey: "hf_test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return newResponse(http.StatusServiceUnavailable, "application/json", []byte(`{"error":"Model is loading"}`)), nil
		})},
	})

	_, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	want := `Failed to fetch image: 503 Service Unavailable - {"error":"Model is loading"}`
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected UpstreamError with 503, got %v", err)
	}
}

func TestTextToImageRequiresPrompt(t *testing.T) {
	client := NewClient(Options{APIKey: "k"})
	if _, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "  "}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestTextToImageRejectsNonImageBody(t *testing.T) {
	for _, contentType := range []string{"application/json", ""} {
		client := NewClient(Options{APIKey: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return newResponse(http.StatusOK, contentType, []byte(`{"estimated_time": 20}`)), nil
		})}})

		img, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "a cat", Seed: domain.RandomSeed})
		var upstream *domain.UpstreamError
		if !errors.As(err, &upstream) || img != nil {
			t.Fatalf("content type %q: image %v, error %v", contentType, img, err)
		}
		if !strings.Contains(upstream.Body, "estimated_time") {
			t.Fatalf("body = %q", upstream.Body)
		}
	}
}

func TestTextToImageSniffsUnlabelledImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	client := NewClient(Options{APIKey: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, "application/octet-stream", png), nil
	})}})

	img, err := client.TextToImage(context.Background(), ImageRequest{Prompt: "a cat", Seed: domain.RandomSeed})
	if err != nil {
		t.Fatalf("TextToImage error: %v", err)
	}
	if img.ContentType != "image/png" {
		t.Fatalf("content type = %q", img.ContentType)
	}
}
