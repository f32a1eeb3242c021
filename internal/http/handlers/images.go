package handlers

import (
	"net/http"
	"time"

	"genstudio/internal/domain"
	"genstudio/internal/middleware"
)

type imageGenerateRequest struct {
	Prompt   string           `json:"prompt"`
	Settings *domain.Settings `json:"settings,omitempty"`
}

type imageResponse struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// ImagesGenerate renders one image and returns it as a data URI.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imageGenerateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	var settings domain.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	entry, err := a.Studio.GenerateImage(r.Context(), middleware.SessionFromContext(r.Context()), req.Prompt, settings)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, imageResponse{ID: entry.ID, Image: entry.URL, Prompt: entry.Prompt, CreatedAt: entry.CreatedAt})
}
