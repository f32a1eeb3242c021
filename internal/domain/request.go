package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Orientation of a generated video.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// Supported clip lengths in seconds.
const (
	DurationShort = 5
	DurationLong  = 10
)

// GenerationRequest is a submitted generation. It is passed by value and never
// modified after validation.
type GenerationRequest struct {
	Prompt      string
	SourceImage string
	Settings    Settings
	Duration    int
	Orientation Orientation
}

// ValidateSourceImage checks that ref is something the job service can
// resolve: an absolute http(s) URL or a base64 data URI.
func ValidateSourceImage(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("%w: imageUrl is required", ErrInvalidRequest)
	}
	if strings.HasPrefix(ref, "data:") {
		if !strings.Contains(ref, ";base64,") {
			return fmt.Errorf("%w: image data URI must be base64 encoded", ErrInvalidRequest)
		}
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: imageUrl must be an absolute http(s) URL", ErrInvalidRequest)
	}
	return nil
}

// NormalizeVideoOptions applies defaults to duration and orientation and
// rejects values the job service does not accept.
func NormalizeVideoOptions(duration int, orientation string) (int, Orientation, error) {
	if duration == 0 {
		duration = DurationShort
	}
	if duration != DurationShort && duration != DurationLong {
		return 0, "", fmt.Errorf("%w: duration must be %d or %d", ErrInvalidRequest, DurationShort, DurationLong)
	}
	switch Orientation(strings.ToLower(strings.TrimSpace(orientation))) {
	case "", OrientationLandscape:
		return duration, OrientationLandscape, nil
	case OrientationPortrait:
		return duration, OrientationPortrait, nil
	default:
		return 0, "", fmt.Errorf("%w: orientation must be landscape or portrait", ErrInvalidRequest)
	}
}
