package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"genstudio/internal/history"
	"genstudio/internal/http/handlers"
	httpapi "genstudio/internal/http/httpapi"
	"genstudio/internal/infra"
	"genstudio/internal/jobs"
	"genstudio/internal/providers/huggingface"
	"genstudio/internal/providers/image"
	"genstudio/internal/providers/replicate"
	"genstudio/internal/providers/runway"
	"genstudio/internal/providers/video"
	"genstudio/internal/storage"
	"genstudio/internal/studio"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	metrics := infra.NewMetrics("genstudio")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	backend, closeBackend, err := openHistoryBackend(ctx, cfg, files, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("failed to open history backend")
	}
	defer closeBackend()

	// HISTORY_MAX_ENTRIES=0 keeps every entry.
	maxEntries := cfg.HistoryMaxEntries
	if maxEntries == 0 {
		maxEntries = -1
	}
	store := history.NewStore(backend, history.Options{
		MaxEntries: maxEntries,
		Logger:     &logger,
		Metrics:    metrics,
	})
	if err := store.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load history")
	}

	// Vendor clients start without credentials too; each call reports the
	// missing variable instead.
	httpClient := &http.Client{}
	hf := huggingface.NewClient(huggingface.Options{
		APIKey:     cfg.HFAPIKey,
		BaseURL:    cfg.HFBaseURL,
		Model:      cfg.HFModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	rw := runway.NewClient(runway.Options{
		APIKey:     cfg.RunwayAPIKey,
		BaseURL:    cfg.RunwayBaseURL,
		Model:      cfg.RunwayModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	rp := replicate.NewClient(replicate.Options{
		APIToken:   cfg.ReplicateAPIToken,
		BaseURL:    cfg.ReplicateBaseURL,
		Version:    cfg.ReplicateVersion,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	for _, p := range []struct {
		name string
		ok   bool
		env  string
	}{
		{"huggingface", hf.HasCredentials(), huggingface.CredentialEnv},
		{"runway", rw.HasCredentials(), runway.CredentialEnv},
		{"replicate", rp.HasCredentials(), replicate.CredentialEnv},
	} {
		if !p.ok {
			logger.Warn().Str("provider", p.name).Str("env", p.env).Msg("provider credential not set")
		}
	}

	poller := jobs.New(jobs.Options{
		Interval:    cfg.JobPollInterval,
		MaxAttempts: cfg.JobPollMaxAttempts,
		Timeout:     cfg.JobPollTimeout,
		Logger:      &logger,
		Metrics:     metrics,
	})

	s := studio.New(studio.Options{
		Images:       image.NewHuggingFaceGenerator(hf),
		Animator:     video.NewJobAnimator(rw, poller),
		TextAnimator: video.NewPredictionAnimator(rp),
		History:      store,
		Uploads:      files,
		Logger:       &logger,
		Metrics:      metrics,
	})

	app := handlers.NewApp(cfg, s, &logger, metrics)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(ctx, cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("history_backend", cfg.HistoryBackend).
			Int("history_entries", store.Len()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
