package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinDimension  = 256
	MaxDimension  = 1024
	DimensionStep = 64
	MinSteps      = 10
	MaxSteps      = 50
	MinGuidance   = 1.0
	MaxGuidance   = 20.0
	RandomSeed    = -1
	MaxSeed       = 1000000
)

// Models lists the selectable model ids in display order.
var Models = []string{"stable-diffusion-xl", "midjourney-v5", "dalle-3", "sdxl-turbo"}

// Styles lists the selectable style ids in display order.
var Styles = []string{"photorealistic", "anime", "digital-art", "oil-painting", "3d-render", "pixel-art"}

// Settings are the user-tunable generation parameters.
type Settings struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Steps         int     `json:"steps"`
	Guidance      float64 `json:"guidance"`
	Seed          *int    `json:"seed,omitempty"`
	EnhancePrompt *bool   `json:"enhancePrompt,omitempty"`
	Model         string  `json:"model"`
	Style         string  `json:"style"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	enhance := true
	return Settings{
		Width:         512,
		Height:        512,
		Steps:         30,
		Guidance:      7.5,
		Seed:          FixedSeed(RandomSeed),
		EnhancePrompt: &enhance,
		Model:         Models[0],
		Style:         Styles[0],
	}
}

// FixedSeed returns a pointer to v for use as Settings.Seed.
func FixedSeed(v int) *int {
	return &v
}

// SeedValue is the seed to send upstream; RandomSeed when unset.
func (s Settings) SeedValue() int {
	if s.Seed == nil {
		return RandomSeed
	}
	return *s.Seed
}

// Normalize fills unset fields with defaults. An omitted seed becomes
// RandomSeed; an explicit 0 is kept.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.Width == 0 {
		s.Width = def.Width
	}
	if s.Height == 0 {
		s.Height = def.Height
	}
	if s.Steps == 0 {
		s.Steps = def.Steps
	}
	if s.Guidance == 0 {
		s.Guidance = def.Guidance
	}
	if s.Seed == nil {
		s.Seed = FixedSeed(RandomSeed)
	}
	if s.EnhancePrompt == nil {
		s.EnhancePrompt = def.EnhancePrompt
	}
	s.Model = strings.TrimSpace(strings.ToLower(s.Model))
	if s.Model == "" {
		s.Model = def.Model
	}
	s.Style = strings.TrimSpace(strings.ToLower(s.Style))
	if s.Style == "" {
		s.Style = def.Style
	}
	return s
}

// Enhance reports whether the prompt should be enriched with the style.
func (s Settings) Enhance() bool {
	return s.EnhancePrompt != nil && *s.EnhancePrompt
}

// Validate checks every field against the ranges the settings surface offers.
func (s Settings) Validate() error {
	if err := checkDimension("width", s.Width); err != nil {
		return err
	}
	if err := checkDimension("height", s.Height); err != nil {
		return err
	}
	if s.Steps < MinSteps || s.Steps > MaxSteps {
		return fmt.Errorf("%w: steps must be between %d and %d", ErrInvalidSettings, MinSteps, MaxSteps)
	}
	if s.Guidance < MinGuidance || s.Guidance > MaxGuidance || math.Mod(s.Guidance*2, 1) != 0 {
		return fmt.Errorf("%w: guidance must be between %.0f and %.0f in steps of 0.5", ErrInvalidSettings, MinGuidance, MaxGuidance)
	}
	if seed := s.SeedValue(); seed != RandomSeed && (seed < 0 || seed > MaxSeed) {
		return fmt.Errorf("%w: seed must be -1 or between 0 and %d", ErrInvalidSettings, MaxSeed)
	}
	if !contains(Models, s.Model) {
		return fmt.Errorf("%w: unknown model %q", ErrInvalidSettings, s.Model)
	}
	if !contains(Styles, s.Style) {
		return fmt.Errorf("%w: unknown style %q", ErrInvalidSettings, s.Style)
	}
	return nil
}

func checkDimension(name string, v int) error {
	if v < MinDimension || v > MaxDimension || v%DimensionStep != 0 {
		return fmt.Errorf("%w: %s must be a multiple of %d between %d and %d", ErrInvalidSettings, name, DimensionStep, MinDimension, MaxDimension)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
