package video

import (
	"context"

	"genstudio/internal/domain"
)

// Asset is a finished clip hosted by the vendor.
type Asset struct {
	URL      string
	JobID    string
	Attempts int
}

// ImageAnimator turns a still image into a clip.
type ImageAnimator interface {
	Animate(ctx context.Context, req domain.GenerationRequest) (*Asset, error)
}

// TextAnimator renders a clip from a prompt alone.
type TextAnimator interface {
	AnimatePrompt(ctx context.Context, prompt string) (*Asset, error)
}
