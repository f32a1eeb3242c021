// Package jobs drives asynchronous remote generation jobs to completion.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genstudio/internal/domain"
	"genstudio/internal/infra"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultInterval    = 10 * time.Second
	DefaultMaxAttempts = 90
	DefaultTimeout     = 15 * time.Minute
)

// JobService is a remote service that accepts a generation and exposes its
// progress as a domain.Job.
type JobService interface {
	Submit(ctx context.Context, req domain.GenerationRequest) (string, error)
	Retrieve(ctx context.Context, jobID string) (domain.Job, error)
}

// Options configures a Poller. A negative MaxAttempts or Timeout disables that bound.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
	Logger      *infra.Logger
	Metrics     *infra.Metrics
}

// Result is the outcome of a successful job.
type Result struct {
	JobID    string
	URL      string
	Attempts int
}

// Poller submits one job and checks its status on a fixed interval until the
// job reaches a terminal state, the attempt or time bound is hit, or the
// context is cancelled.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
	logger      *infra.Logger
	metrics     *infra.Metrics
}

func New(opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		logger:      infra.LoggerOrDiscard(opts.Logger),
		metrics:     opts.Metrics,
	}
}

// Run submits req to svc and waits for the job to finish. The submission is
// never retried. A transport error on any status check aborts the run.
func (p *Poller) Run(ctx context.Context, svc JobService, req domain.GenerationRequest) (*Result, error) {
	pollCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	jobID, err := svc.Submit(pollCtx, req)
	if err != nil {
		return nil, p.stopReason(ctx, pollCtx, "", err)
	}
	log := p.logger.With().Str("job_id", jobID).Logger()
	log.Info().Msg("jobs: submitted")

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	var last domain.JobStatus
	for attempt := 1; ; attempt++ {
		select {
		case <-pollCtx.Done():
			return nil, p.stopReason(ctx, pollCtx, jobID, pollCtx.Err())
		case <-timer.C:
		}

		job, err := svc.Retrieve(pollCtx, jobID)
		if err != nil {
			log.Error().Err(err).Int("attempt", attempt).Msg("jobs: status check failed")
			return nil, p.stopReason(ctx, pollCtx, jobID, err)
		}
		p.metrics.ObservePoll(pollLabel(job.Status))

		switch {
		case !job.Status.Known():
			log.Warn().Str("status", string(job.Status)).Int("attempt", attempt).Msg("jobs: unrecognized status, polling again")
		case job.Status.Terminal():
			log.Info().Str("status", string(job.Status)).Int("attempt", attempt).Msg("jobs: terminal status")
			return resolve(jobID, job, attempt)
		default:
			if job.Status != last {
				log.Debug().Str("status", string(job.Status)).Int("attempt", attempt).Msg("jobs: status changed")
			}
			last = job.Status
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			log.Warn().Int("attempts", attempt).Msg("jobs: attempt limit reached")
			return nil, fmt.Errorf("%w: job %s still %s after %d checks", domain.ErrPollLimit, jobID, displayStatus(job.Status), attempt)
		}
		timer.Reset(p.interval)
	}
}

func resolve(jobID string, job domain.Job, attempts int) (*Result, error) {
	if job.Status != domain.JobStatusSucceeded {
		return nil, &domain.JobStatusError{JobID: jobID, Status: job.Status}
	}
	url := job.FirstOutput()
	if url == "" {
		return nil, fmt.Errorf("%w: job %s", domain.ErrEmptyOutput, jobID)
	}
	return &Result{JobID: jobID, URL: url, Attempts: attempts}, nil
}

// stopReason maps an expired poll deadline to ErrPollLimit while leaving
// caller cancellation and transport errors untouched.
func (p *Poller) stopReason(parent, pollCtx context.Context, jobID string, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		if jobID == "" {
			return fmt.Errorf("%w: submission did not complete within %s", domain.ErrPollLimit, p.timeout)
		}
		return fmt.Errorf("%w: job %s did not finish within %s", domain.ErrPollLimit, jobID, p.timeout)
	}
	return err
}

func displayStatus(s domain.JobStatus) string {
	if s == "" {
		return "without status"
	}
	return string(s)
}

// pollLabel bounds the metric label set to the known statuses.
func pollLabel(s domain.JobStatus) string {
	if !s.Known() {
		return "UNKNOWN"
	}
	return string(s)
}
