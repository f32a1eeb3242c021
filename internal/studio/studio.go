// Package studio coordinates the generation modes: it admits one generation
// per session, dispatches to the configured vendor capability and records
// successful results in the history.
package studio

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"genstudio/internal/domain"
	"genstudio/internal/history"
	"genstudio/internal/infra"
	"genstudio/internal/providers/image"
	"genstudio/internal/providers/video"
	"genstudio/internal/storage"
	"genstudio/pkg/datauri"
)

// Generation modes used in logs and metrics.
const (
	ModeImage        = "image"
	ModeImageToVideo = "image_to_video"
	ModeTextToVideo  = "text_to_video"
)

// Options wires a Studio. Any capability left nil reports itself as not
// configured when used.
type Options struct {
	Images       image.Generator
	Animator     video.ImageAnimator
	TextAnimator video.TextAnimator
	History      *history.Store
	Uploads      *storage.FileStore
	Logger       *infra.Logger
	Metrics      *infra.Metrics
}

type Studio struct {
	images       image.Generator
	animator     video.ImageAnimator
	textAnimator video.TextAnimator
	history      *history.Store
	uploads      *storage.FileStore
	guard        *Guard
	logger       *infra.Logger
	metrics      *infra.Metrics
}

func New(opts Options) *Studio {
	return &Studio{
		images:       opts.Images,
		animator:     opts.Animator,
		textAnimator: opts.TextAnimator,
		history:      opts.History,
		uploads:      opts.Uploads,
		guard:        NewGuard(),
		logger:       infra.LoggerOrDiscard(opts.Logger),
		metrics:      opts.Metrics,
	}
}

// History exposes the backing history store.
func (s *Studio) History() *history.Store {
	return s.history
}

// GenerateImage renders prompt with settings and records the image in the
// history as a self-contained data URI.
func (s *Studio) GenerateImage(ctx context.Context, session, prompt string, settings domain.Settings) (entry domain.HistoryEntry, err error) {
	if s.images == nil {
		return domain.HistoryEntry{}, fmt.Errorf("studio: image generation not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.HistoryEntry{}, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return domain.HistoryEntry{}, err
	}
	release, err := s.guard.Acquire(session)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	defer release()
	defer s.observe(ModeImage, session, time.Now(), &err)

	asset, err := s.images.Generate(ctx, image.GenerateRequest{Prompt: prompt, Settings: settings})
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	entry = domain.HistoryEntry{
		Kind:   domain.EntryKindImage,
		URL:    datauri.Encode(asset.Format, asset.Data),
		Prompt: prompt,
	}
	if s.history == nil {
		entry.ID = uuid.NewString()
		entry.CreatedAt = time.Now().UTC()
		return entry, nil
	}
	return s.history.Prepend(ctx, entry)
}

// AnimateImage turns req.SourceImage into a clip and returns its URL.
func (s *Studio) AnimateImage(ctx context.Context, session string, req domain.GenerationRequest) (url string, err error) {
	if s.animator == nil {
		return "", fmt.Errorf("studio: image-to-video not configured")
	}
	release, err := s.guard.Acquire(session)
	if err != nil {
		return "", err
	}
	defer release()
	defer s.observe(ModeImageToVideo, session, time.Now(), &err)

	asset, err := s.animator.Animate(ctx, req)
	if err != nil {
		return "", err
	}
	s.record(ctx, asset.URL, req.Prompt)
	return asset.URL, nil
}

// AnimatePrompt renders a clip from prompt alone and returns its URL.
func (s *Studio) AnimatePrompt(ctx context.Context, session, prompt string) (url string, err error) {
	if s.textAnimator == nil {
		return "", fmt.Errorf("studio: text-to-video not configured")
	}
	release, err := s.guard.Acquire(session)
	if err != nil {
		return "", err
	}
	defer release()
	defer s.observe(ModeTextToVideo, session, time.Now(), &err)

	asset, err := s.textAnimator.AnimatePrompt(ctx, prompt)
	if err != nil {
		return "", err
	}
	s.record(ctx, asset.URL, prompt)
	return asset.URL, nil
}

// SaveUpload keeps an uploaded source image under the storage root and
// returns it as a data URI the job service can read.
func (s *Studio) SaveUpload(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: uploaded file is empty", domain.ErrInvalidRequest)
	}
	mimeType = strings.TrimSpace(mimeType)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: uploaded file must be an image", domain.ErrInvalidRequest)
	}
	if s.uploads != nil {
		ext := path.Ext(filename)
		if ext == "" {
			ext = datauri.Extension(mimeType)
		}
		key := path.Join("uploads", time.Now().UTC().Format("20060102"), uuid.NewString()+strings.ToLower(ext))
		if _, err := s.uploads.Write(ctx, key, data); err != nil {
			return "", err
		}
		s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("studio: stored upload")
	}
	return datauri.Encode(mimeType, data), nil
}

// record appends a finished clip to the history. A failure here does not
// fail the generation that already succeeded.
func (s *Studio) record(ctx context.Context, url, prompt string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Prepend(ctx, domain.HistoryEntry{Kind: domain.EntryKindVideo, URL: url, Prompt: strings.TrimSpace(prompt)}); err != nil {
		s.logger.Warn().Err(err).Msg("studio: could not record video in history")
	}
}

func (s *Studio) observe(mode, session string, start time.Time, errp *error) {
	took := time.Since(start)
	s.metrics.ObserveGeneration(mode, *errp, took)
	evt := s.logger.Info()
	if *errp != nil {
		evt = s.logger.Warn().Err(*errp)
	}
	evt.Str("mode", mode).Str("session", session).Dur("took", took).Msg("studio: generation finished")
}
