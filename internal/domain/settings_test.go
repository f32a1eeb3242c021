package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	got := Settings{}.Normalize()
	def := DefaultSettings()
	if got.Width != def.Width || got.Height != def.Height || got.Steps != def.Steps || got.Guidance != def.Guidance {
		t.Fatalf("Normalize() = %+v, want defaults %+v", got, def)
	}
	if got.Model != "stable-diffusion-xl" || got.Style != "photorealistic" {
		t.Fatalf("model/style = %q/%q", got.Model, got.Style)
	}
	if !got.Enhance() {
		t.Fatalf("expected enhance prompt to default to true")
	}
	if got.Seed == nil || *got.Seed != RandomSeed {
		t.Fatalf("omitted seed = %v, want %d", got.Seed, RandomSeed)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestNormalizeKeepsExplicitEnhanceFalse(t *testing.T) {
	off := false
	got := Settings{EnhancePrompt: &off}.Normalize()
	if got.Enhance() {
		t.Fatalf("explicit enhancePrompt=false was overridden")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
		ok     bool
	}{
		{name: "defaults", mutate: func(s *Settings) {}, ok: true},
		{name: "max dimensions", mutate: func(s *Settings) { s.Width, s.Height = 1024, 1024 }, ok: true},
		{name: "width not multiple of 64", mutate: func(s *Settings) { s.Width = 500 }},
		{name: "height too small", mutate: func(s *Settings) { s.Height = 128 }},
		{name: "steps too high", mutate: func(s *Settings) { s.Steps = 51 }},
		{name: "guidance half step", mutate: func(s *Settings) { s.Guidance = 12.5 }, ok: true},
		{name: "guidance off grid", mutate: func(s *Settings) { s.Guidance = 7.3 }},
		{name: "seed zero", mutate: func(s *Settings) { s.Seed = FixedSeed(0) }, ok: true},
		{name: "seed out of range", mutate: func(s *Settings) { s.Seed = FixedSeed(MaxSeed + 1) }},
		{name: "negative seed", mutate: func(s *Settings) { s.Seed = FixedSeed(-5) }},
		{name: "unknown model", mutate: func(s *Settings) { s.Model = "imagen" }},
		{name: "unknown style", mutate: func(s *Settings) { s.Style = "cubism" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatalf("Validate() expected error")
				}
				if !errors.Is(err, ErrInvalidSettings) {
					t.Fatalf("error %v does not wrap ErrInvalidSettings", err)
				}
			}
		})
	}
}

func TestValidateSourceImage(t *testing.T) {
	tests := []struct {
		ref string
		ok  bool
	}{
		{ref: "https://cdn.example.com/cat.png", ok: true},
		{ref: "data:image/png;base64,iVBORw0KGgo=", ok: true},
		{ref: ""},
		{ref: "cat.png"},
		{ref: "ftp://example.com/cat.png"},
		{ref: "data:image/png,raw"},
	}
	for _, tc := range tests {
		err := ValidateSourceImage(tc.ref)
		if tc.ok != (err == nil) {
			t.Fatalf("ValidateSourceImage(%q) error = %v, want ok=%t", tc.ref, err, tc.ok)
		}
	}
}

func TestNormalizeVideoOptions(t *testing.T) {
	d, o, err := NormalizeVideoOptions(0, "")
	if err != nil || d != DurationShort || o != OrientationLandscape {
		t.Fatalf("defaults = %d/%q/%v", d, o, err)
	}
	d, o, err = NormalizeVideoOptions(10, "Portrait")
	if err != nil || d != DurationLong || o != OrientationPortrait {
		t.Fatalf("explicit = %d/%q/%v", d, o, err)
	}
	if _, _, err := NormalizeVideoOptions(7, ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid duration error, got %v", err)
	}
	if _, _, err := NormalizeVideoOptions(5, "square"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid orientation error, got %v", err)
	}
}

func TestNormalizeKeepsExplicitZeroSeed(t *testing.T) {
	got := Settings{Seed: FixedSeed(0)}.Normalize()
	if got.SeedValue() != 0 {
		t.Fatalf("explicit seed 0 became %d", got.SeedValue())
	}
}

func TestSettingsJSONOmittedSeedIsRandom(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"width":768}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := s.Normalize().SeedValue(); got != RandomSeed {
		t.Fatalf("seed = %d, want %d", got, RandomSeed)
	}
	if err := json.Unmarshal([]byte(`{"seed":0}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := s.Normalize().SeedValue(); got != 0 {
		t.Fatalf("seed = %d, want 0", got)
	}
}
