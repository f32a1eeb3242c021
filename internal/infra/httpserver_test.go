package infra_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"genstudio/internal/domain"
	"genstudio/internal/infra"
	"genstudio/internal/jobs"
)

// pendingService accepts a job that never leaves PENDING.
type pendingService struct{}

func (pendingService) Submit(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return "task-1", nil
}

func (pendingService) Retrieve(ctx context.Context, id string) (domain.Job, error) {
	return domain.Job{ID: id, Status: domain.JobStatusPending}, nil
}

func TestServerContextCancelStopsInFlightPoll(t *testing.T) {
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	polling := make(chan struct{})
	result := make(chan error, 1)
	poller := jobs.New(jobs.Options{Interval: 10 * time.Millisecond, Timeout: time.Minute})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(polling)
		_, err := poller.Run(r.Context(), pendingService{}, domain.GenerationRequest{})
		result <- err
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := infra.NewHTTPServer(baseCtx, &infra.Config{Port: "0"}, handler)
	go func() { _ = srv.Serve(ln) }()
	defer srv.Shutdown(context.Background())

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/img2vdo")
		if err == nil {
			resp.Body.Close()
		}
	}()

	select {
	case <-polling:
	case <-time.After(5 * time.Second):
		t.Fatalf("request never reached the handler")
	}
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("poll kept running after the server context was cancelled")
	}
}
