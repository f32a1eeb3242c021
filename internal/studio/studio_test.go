package studio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"genstudio/internal/domain"
	"genstudio/internal/history"
	"genstudio/internal/providers/image"
	"genstudio/internal/providers/video"
	"genstudio/internal/storage"
)

type stubImages struct {
	req   image.GenerateRequest
	asset *image.Asset
	err   error
	block chan struct{}
}

func (s *stubImages) Generate(ctx context.Context, req image.GenerateRequest) (*image.Asset, error) {
	s.req = req
	if s.block != nil {
		<-s.block
	}
	return s.asset, s.err
}

type stubAnimator struct {
	url string
	err error
}

func (s stubAnimator) Animate(ctx context.Context, req domain.GenerationRequest) (*video.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &video.Asset{URL: s.url}, nil
}

func (s stubAnimator) AnimatePrompt(ctx context.Context, prompt string) (*video.Asset, error) {
	return s.Animate(ctx, domain.GenerationRequest{Prompt: prompt})
}

func newStudio(opts Options) *Studio {
	if opts.History == nil {
		opts.History = history.NewStore(history.NewMemoryBackend(), history.Options{})
	}
	return New(opts)
}

func TestGenerateImageRecordsDataURI(t *testing.T) {
	images := &stubImages{asset: &image.Asset{Data: []byte{1, 2, 3}, Format: "image/png"}}
	s := newStudio(Options{Images: images})

	entry, err := s.GenerateImage(context.Background(), "sess", " a fox ", domain.Settings{Width: 640})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if entry.URL != "data:image/png;base64,AQID" || entry.Prompt != "a fox" || entry.ID == "" {
		t.Fatalf("entry = %+v", entry)
	}
	if images.req.Settings.Width != 640 || images.req.Settings.Height != 512 {
		t.Fatalf("settings not normalized: %+v", images.req.Settings)
	}
	list := s.History().List()
	if len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("history = %+v", list)
	}
}

func TestGenerateImageValidatesFirst(t *testing.T) {
	images := &stubImages{}
	s := newStudio(Options{Images: images})

	if _, err := s.GenerateImage(context.Background(), "sess", "", domain.Settings{}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("blank prompt error = %v", err)
	}
	if _, err := s.GenerateImage(context.Background(), "sess", "x", domain.Settings{Steps: 99}); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("bad settings error = %v", err)
	}
	if s.History().Len() != 0 {
		t.Fatalf("history should stay empty")
	}
}

func TestGenerateImageFailureLeavesHistoryUntouched(t *testing.T) {
	cred := &domain.CredentialError{Service: "huggingface", EnvVar: "HF_API_KEY"}
	s := newStudio(Options{Images: &stubImages{err: cred}})

	if _, err := s.GenerateImage(context.Background(), "sess", "x", domain.Settings{}); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("error = %v", err)
	}
	if s.History().Len() != 0 {
		t.Fatalf("history should stay empty after failure")
	}
}

func TestSecondSubmissionInSameSessionIsBusy(t *testing.T) {
	images := &stubImages{asset: &image.Asset{Data: []byte{1}, Format: "image/png"}, block: make(chan struct{})}
	s := newStudio(Options{Images: images, Animator: stubAnimator{url: "https://x/v.mp4"}})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.GenerateImage(context.Background(), "sess", "first", domain.Settings{}); err != nil {
			t.Errorf("first GenerateImage: %v", err)
		}
	}()
	for s.guard.Active() == 0 {
		runtime.Gosched()
	}

	if _, err := s.AnimateImage(context.Background(), "sess", domain.GenerationRequest{SourceImage: "https://x/a.png"}); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("same-session error = %v, want ErrBusy", err)
	}
	if _, err := s.AnimateImage(context.Background(), "other", domain.GenerationRequest{SourceImage: "https://x/a.png"}); err != nil {
		t.Fatalf("other session should proceed: %v", err)
	}

	close(images.block)
	wg.Wait()
	if s.guard.Active() != 0 {
		t.Fatalf("guard still holds %d sessions", s.guard.Active())
	}
}

func TestAnimateRecordsVideo(t *testing.T) {
	s := newStudio(Options{Animator: stubAnimator{url: "https://x/v.mp4"}, TextAnimator: stubAnimator{url: "https://x/t.mp4"}})

	url, err := s.AnimateImage(context.Background(), "a", domain.GenerationRequest{SourceImage: "https://x/a.png", Prompt: "zoom"})
	if err != nil || url != "https://x/v.mp4" {
		t.Fatalf("AnimateImage = %q, %v", url, err)
	}
	url, err = s.AnimatePrompt(context.Background(), "a", "waves")
	if err != nil || url != "https://x/t.mp4" {
		t.Fatalf("AnimatePrompt = %q, %v", url, err)
	}
	list := s.History().List()
	if len(list) != 2 || list[0].URL != "https://x/t.mp4" || list[1].Kind != domain.EntryKindVideo || list[1].Prompt != "zoom" {
		t.Fatalf("history = %+v", list)
	}
}

func TestAnimateImageSurfacesJobStatus(t *testing.T) {
	s := newStudio(Options{Animator: stubAnimator{err: &domain.JobStatusError{JobID: "j", Status: domain.JobStatusFailed}}})
	_, err := s.AnimateImage(context.Background(), "a", domain.GenerationRequest{SourceImage: "https://x/a.png"})
	if err == nil || err.Error() != "Task FAILED" {
		t.Fatalf("error = %v", err)
	}
	if s.History().Len() != 0 {
		t.Fatalf("failed clip recorded")
	}
}

func TestUnconfiguredCapabilities(t *testing.T) {
	s := New(Options{})
	if _, err := s.GenerateImage(context.Background(), "a", "x", domain.Settings{}); err == nil {
		t.Fatalf("expected error without image generator")
	}
	if _, err := s.AnimateImage(context.Background(), "a", domain.GenerationRequest{}); err == nil {
		t.Fatalf("expected error without animator")
	}
	if _, err := s.AnimatePrompt(context.Background(), "a", "x"); err == nil {
		t.Fatalf("expected error without text animator")
	}
}

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s := newStudio(Options{Uploads: fs})

	uri, err := s.SaveUpload(context.Background(), "Cat.PNG", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if uri != "data:image/png;base64,AQID" {
		t.Fatalf("uri = %q", uri)
	}
	var files []string
	_ = filepath.Walk(filepath.Join(dir, "uploads"), func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if len(files) != 1 || !strings.HasSuffix(files[0], ".png") {
		t.Fatalf("stored files = %v", files)
	}

	if _, err := s.SaveUpload(context.Background(), "a.txt", "text/plain", []byte("x")); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("non-image error = %v", err)
	}
	if _, err := s.SaveUpload(context.Background(), "a.png", "image/png", nil); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("empty upload error = %v", err)
	}
}

func TestGuardReleaseIsIdempotent(t *testing.T) {
	g := NewGuard()
	release, err := g.Acquire("s")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := g.Acquire("s"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("second Acquire error = %v", err)
	}
	release()
	release()
	again, err := g.Acquire("s")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
	if g.Active() != 0 {
		t.Fatalf("Active = %d", g.Active())
	}
}
