package image

import (
	"context"

	"genstudio/internal/domain"
)

// GenerateRequest is a normalized text-to-image request passed to any image provider.
type GenerateRequest struct {
	Prompt   string
	Settings domain.Settings
}

// Asset is one rendered image.
type Asset struct {
	Data   []byte
	Format string
	Width  int
	Height int
	Prompt string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
