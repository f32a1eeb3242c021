package video

import (
	"context"
	"fmt"
	"strings"

	"genstudio/internal/domain"
)

type predictor interface {
	Predict(ctx context.Context, prompt string) (string, error)
}

// PredictionAnimator renders prompt-only clips with a synchronous prediction service.
type PredictionAnimator struct {
	client predictor
}

func NewPredictionAnimator(client predictor) *PredictionAnimator {
	return &PredictionAnimator{client: client}
}

func (a *PredictionAnimator) AnimatePrompt(ctx context.Context, prompt string) (*Asset, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}
	url, err := a.client.Predict(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Asset{URL: url}, nil
}

var _ TextAnimator = (*PredictionAnimator)(nil)
