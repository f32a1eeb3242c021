// Package datauri encodes and decodes base64 data URIs.
package datauri

import (
	"encoding/base64"
	"errors"
	"mime"
	"strings"
)

var ErrInvalid = errors.New("datauri: not a base64 data URI")

// Encode returns data as "data:<mime>;base64,<payload>".
func Encode(mimeType string, data []byte) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode parses a base64 data URI and returns its media type and bytes.
func Decode(uri string) (string, []byte, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, ErrInvalid
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return "", nil, ErrInvalid
	}
	params := strings.Split(header, ";")
	if len(params) < 2 || params[len(params)-1] != "base64" {
		return "", nil, ErrInvalid
	}
	mimeType := params[0]
	if mimeType == "" {
		mimeType = "text/plain"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return "", nil, ErrInvalid
		}
	}
	return mimeType, data, nil
}

// Extension returns a file extension (with dot) for mimeType, preferring the
// short common forms.
func Extension(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "video/mp4":
		return ".mp4"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
