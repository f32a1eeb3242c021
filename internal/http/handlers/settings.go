package handlers

import (
	"net/http"

	"genstudio/internal/domain"
)

type settingsLimits struct {
	MinDimension  int     `json:"min_dimension"`
	MaxDimension  int     `json:"max_dimension"`
	DimensionStep int     `json:"dimension_step"`
	MinSteps      int     `json:"min_steps"`
	MaxSteps      int     `json:"max_steps"`
	MinGuidance   float64 `json:"min_guidance"`
	MaxGuidance   float64 `json:"max_guidance"`
	GuidanceStep  float64 `json:"guidance_step"`
	RandomSeed    int     `json:"random_seed"`
	MaxSeed       int     `json:"max_seed"`
}

// SettingsDefaults describes the settings surface: defaults, ranges and the
// selectable model and style ids.
func (a *App) SettingsDefaults(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"defaults": domain.DefaultSettings(),
		"models":   domain.Models,
		"styles":   domain.Styles,
		"limits": settingsLimits{
			MinDimension:  domain.MinDimension,
			MaxDimension:  domain.MaxDimension,
			DimensionStep: domain.DimensionStep,
			MinSteps:      domain.MinSteps,
			MaxSteps:      domain.MaxSteps,
			MinGuidance:   domain.MinGuidance,
			MaxGuidance:   domain.MaxGuidance,
			GuidanceStep:  0.5,
			RandomSeed:    domain.RandomSeed,
			MaxSeed:       domain.MaxSeed,
		},
		"video": map[string]any{
			"durations":    []int{domain.DurationShort, domain.DurationLong},
			"orientations": []domain.Orientation{domain.OrientationLandscape, domain.OrientationPortrait},
		},
	})
}
