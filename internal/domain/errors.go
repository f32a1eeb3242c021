package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrBusy              = errors.New("a generation is already in progress for this session")
	ErrEmptyOutput       = errors.New("job succeeded without output")
	ErrPollLimit         = errors.New("job did not reach a terminal state in time")
)

// CredentialError reports a credential that was not configured. It is raised
// before any network call is attempted.
type CredentialError struct {
	Service string
	EnvVar  string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: API key is missing. Please set %s in the server environment.", e.Service, e.EnvVar)
}

func (e *CredentialError) Unwrap() error { return ErrMissingCredential }

// UpstreamError carries a non-success HTTP response from a vendor API.
type UpstreamError struct {
	Service    string
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: upstream status %s", e.Service, status)
	}
	return fmt.Sprintf("%s: upstream status %s - %s", e.Service, status, body)
}

// JobStatusError reports a job that ended in a non-success terminal state.
type JobStatusError struct {
	JobID  string
	Status JobStatus
}

func (e *JobStatusError) Error() string {
	return fmt.Sprintf("Task %s", e.Status)
}
