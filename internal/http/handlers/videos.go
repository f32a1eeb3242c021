package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"genstudio/internal/domain"
	"genstudio/internal/middleware"
)

const maxUploadBytes = 10 << 20

type imageToVideoRequest struct {
	ImageURL    string `json:"imageUrl"`
	PromptText  string `json:"promptText"`
	Duration    int    `json:"duration"`
	Orientation string `json:"orientation"`
}

type textToVideoRequest struct {
	Prompt string `json:"prompt"`
}

// ImageToVideo animates a still image. It accepts a JSON body with imageUrl
// or a multipart form carrying the image as "file".
func (a *App) ImageToVideo(w http.ResponseWriter, r *http.Request) {
	req, err := a.readImageToVideo(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := domain.ValidateSourceImage(req.SourceImage); err != nil {
		a.fail(w, r, err)
		return
	}
	url, err := a.Studio.AnimateImage(r.Context(), middleware.SessionFromContext(r.Context()), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"videoUrl": url})
}

func (a *App) readImageToVideo(w http.ResponseWriter, r *http.Request) (domain.GenerationRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body imageToVideoRequest
		if err := a.decode(w, r, &body); err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("%w: invalid payload", domain.ErrInvalidRequest)
		}
		return domain.GenerationRequest{
			Prompt:      body.PromptText,
			SourceImage: strings.TrimSpace(body.ImageURL),
			Duration:    body.Duration,
			Orientation: domain.Orientation(body.Orientation),
		}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: invalid form: %v", domain.ErrInvalidRequest, err)
	}
	req := domain.GenerationRequest{
		Prompt:      r.FormValue("promptText"),
		SourceImage: strings.TrimSpace(r.FormValue("imageUrl")),
		Orientation: domain.Orientation(r.FormValue("orientation")),
	}
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("%w: duration must be a number", domain.ErrInvalidRequest)
		}
		req.Duration = d
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidRequest, err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidRequest, err)
	}
	if len(data) > maxUploadBytes {
		return domain.GenerationRequest{}, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrInvalidRequest, maxUploadBytes)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	uri, err := a.Studio.SaveUpload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		return domain.GenerationRequest{}, err
	}
	req.SourceImage = uri
	return req, nil
}

// TextToVideo renders a clip from a prompt. Vendor failures keep the vendor's
// status code and error body.
func (a *App) TextToVideo(w http.ResponseWriter, r *http.Request) {
	var req textToVideoRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	url, err := a.Studio.AnimatePrompt(r.Context(), middleware.SessionFromContext(r.Context()), req.Prompt)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			a.Logger.Warn().Err(err).Int("status", upstream.StatusCode).Msg("text-to-video upstream failure")
			a.json(w, upstream.StatusCode, errorBody{Error: upstreamBody(upstream.Body)})
			return
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"video_url": url})
}

// upstreamBody passes JSON bodies through as JSON and anything else as text.
func upstreamBody(body string) any {
	trimmed := strings.TrimSpace(body)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return trimmed
}
