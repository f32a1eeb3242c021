package datauri

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	uri := Encode("image/png", data)
	if uri != "data:image/png;base64,iVBORwD/" {
		t.Fatalf("Encode = %q", uri)
	}
	mimeType, decoded, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mimeType != "image/png" || !bytes.Equal(decoded, data) {
		t.Fatalf("Decode = %q %v", mimeType, decoded)
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, in := range []string{"", "https://x/a.png", "data:image/png,plain", "data:image/png;base64", "data:image/png;base64,@@@"} {
		if _, _, err := Decode(in); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Decode(%q) error = %v, want ErrInvalid", in, err)
		}
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{"image/png": ".png", "image/jpeg": ".jpg", "video/mp4": ".mp4", "application/x-unknown-thing": ".bin"}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
