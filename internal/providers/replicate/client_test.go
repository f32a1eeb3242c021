package replicate

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

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestPredictMissingTokenMakesNoCall(t *testing.T) {
	calls := 0
	client := NewClient(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{}`), nil
	})}})

	_, err := client.Predict(context.Background(), "a dancing robot")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(err.Error(), "REPLICATE_API_TOKEN") {
		t.Fatalf("error %q does not name REPLICATE_API_TOKEN", err.Error())
	}
	if calls != 0 {
		t.Fatalf("transport called %d times, want 0", calls)
	}
}

func TestPredictSendsTokenAndVersion(t *testing.T) {
	var got predictionRequest
	var auth, prefer string
	client := NewClient(Options{
		APIToken: "r8_test",
		Version:  "owner/model:abc",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			auth = r.Header.Get("Authorization")
			prefer = r.Header.Get("Prefer")
			if r.URL.Path != "/v1/predictions" {
				t.Fatalf("path = %q", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			return jsonResponse(http.StatusCreated, `{"id":"p1","status":"succeeded","video_url":"https://r.example/v.mp4"}`), nil
		})},
	})

	url, err := client.Predict(context.Background(), "a dancing robot")
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}
	if url != "https://r.example/v.mp4" {
		t.Fatalf("url = %q", url)
	}
	if auth != "Token r8_test" {
		t.Fatalf("Authorization = %q", auth)
	}
	if prefer != "wait" {
		t.Fatalf("Prefer = %q", prefer)
	}
	if got.Version != "owner/model:abc" || got.Input.Prompt != "a dancing robot" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestPredictFallsBackToOutput(t *testing.T) {
	cases := map[string]string{
		"string": `{"id":"p1","status":"succeeded","output":"https://r.example/a.mp4"}`,
		"list":   `{"id":"p1","status":"succeeded","output":["https://r.example/a.mp4","https://r.example/b.mp4"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := NewClient(Options{APIToken: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, body), nil
			})}})
			url, err := client.Predict(context.Background(), "p")
			if err != nil {
				t.Fatalf("Predict error: %v", err)
			}
			if url != "https://r.example/a.mp4" {
				t.Fatalf("url = %q", url)
			}
		})
	}
}

func TestPredictUpstreamErrorKeepsBody(t *testing.T) {
	client := NewClient(Options{APIToken: "bad", HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"detail":"Invalid token."}`), nil
	})}})

	_, err := client.Predict(context.Background(), "p")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", upstream.StatusCode)
	}
	if upstream.Body != `{"detail":"Invalid token."}` {
		t.Fatalf("body = %q", upstream.Body)
	}
}

func TestPredictWithoutOutputFails(t *testing.T) {
	client := NewClient(Options{APIToken: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":"p1","status":"failed","error":"CUDA out of memory"}`), nil
	})}})

	_, err := client.Predict(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("error = %v", err)
	}
}
