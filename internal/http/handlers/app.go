package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"genstudio/internal/domain"
	"genstudio/internal/history"
	"genstudio/internal/infra"
	"genstudio/internal/middleware"
	"genstudio/internal/studio"
)

// App carries the dependencies shared by every handler.
type App struct {
	Config  *infra.Config
	Studio  *studio.Studio
	History *history.Store
	Metrics *infra.Metrics
	Logger  *infra.Logger
}

func NewApp(cfg *infra.Config, s *studio.Studio, logger *infra.Logger, metrics *infra.Metrics) *App {
	return &App{
		Config:  cfg,
		Studio:  s,
		History: s.History(),
		Metrics: metrics,
		Logger:  infra.LoggerOrDiscard(logger),
	}
}

type errorBody struct {
	Error any    `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: message, Code: code})
}

// fail maps err onto a status code and writes it as {"error": ...}.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	log := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		log = a.Logger.Error()
	}
	log.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")
	a.error(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	var upstream *domain.UpstreamError
	var jobErr *domain.JobStatusError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidSettings):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusInternalServerError, "missing_credential"
	case errors.Is(err, domain.ErrPollLimit):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "cancelled"
	case errors.As(err, &jobErr):
		return http.StatusInternalServerError, "job_" + string(jobErr.Status)
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "upstream"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return errors.Join(domain.ErrInvalidRequest, err)
	}
	return nil
}

const maxJSONBody = 16 << 20
