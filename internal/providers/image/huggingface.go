package image

import (
	"context"
	"fmt"
	"strings"

	"genstudio/internal/domain"
	"genstudio/internal/providers/huggingface"
)

type textToImageClient interface {
	TextToImage(context.Context, huggingface.ImageRequest) (*huggingface.Image, error)
	Model() string
}

// HuggingFaceGenerator renders images through the hosted inference API. The
// prompt is enriched with the selected style when the settings ask for it.
type HuggingFaceGenerator struct {
	client textToImageClient
}

func NewHuggingFaceGenerator(client textToImageClient) *HuggingFaceGenerator {
	return &HuggingFaceGenerator{client: client}
}

// Generate fulfils the Generator interface.
func (g *HuggingFaceGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("huggingface generator not configured")
	}
	settings := req.Settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	if settings.Enhance() {
		prompt = EnhancePrompt(prompt, settings.Style)
	}
	img, err := g.client.TextToImage(ctx, huggingface.ImageRequest{
		Prompt:   prompt,
		Width:    settings.Width,
		Height:   settings.Height,
		Steps:    settings.Steps,
		Guidance: settings.Guidance,
		Seed:     settings.SeedValue(),
	})
	if err != nil {
		return nil, err
	}
	return &Asset{
		Data:   img.Data,
		Format: normalizeFormat(img.ContentType),
		Width:  settings.Width,
		Height: settings.Height,
		Prompt: prompt,
	}, nil
}

func (g *HuggingFaceGenerator) String() string {
	if g == nil || g.client == nil {
		return "huggingface"
	}
	return g.client.Model()
}

var _ Generator = (*HuggingFaceGenerator)(nil)

func normalizeFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "image/png":
		return "image/png"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}
