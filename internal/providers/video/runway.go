package video

import (
	"context"

	"genstudio/internal/domain"
	"genstudio/internal/jobs"
)

// JobAnimator runs image-to-video jobs on an asynchronous job service and
// waits for them through a poller.
type JobAnimator struct {
	service jobs.JobService
	poller  *jobs.Poller
}

func NewJobAnimator(service jobs.JobService, poller *jobs.Poller) *JobAnimator {
	if poller == nil {
		poller = jobs.New(jobs.Options{})
	}
	return &JobAnimator{service: service, poller: poller}
}

func (a *JobAnimator) Animate(ctx context.Context, req domain.GenerationRequest) (*Asset, error) {
	duration, orientation, err := domain.NormalizeVideoOptions(req.Duration, string(req.Orientation))
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSourceImage(req.SourceImage); err != nil {
		return nil, err
	}
	req.Duration = duration
	req.Orientation = orientation

	res, err := a.poller.Run(ctx, a.service, req)
	if err != nil {
		return nil, err
	}
	return &Asset{URL: res.URL, JobID: res.JobID, Attempts: res.Attempts}, nil
}

var _ ImageAnimator = (*JobAnimator)(nil)
