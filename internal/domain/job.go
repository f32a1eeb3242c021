package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JobStatus is the status reported by the remote job service.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
	JobStatusThrottled JobStatus = "THROTTLED"
)

// Known reports whether s is one of the six statuses the job service defines.
func (s JobStatus) Known() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusSucceeded,
		JobStatusFailed, JobStatusCancelled, JobStatusThrottled:
		return true
	}
	return false
}

// Terminal reports whether no further transition can follow s. Unknown
// statuses are never terminal.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled, JobStatusThrottled:
		return true
	}
	return false
}

// JobOutput is the job's output reference(s). The service may send either a
// single string or a list of strings.
type JobOutput []string

func (o *JobOutput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*o = nil
			return nil
		}
		*o = JobOutput{single}
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*o = list
		return nil
	}
	return fmt.Errorf("job output: unexpected JSON %s", string(data))
}

// Job is a read-only snapshot of a remote job.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	Output JobOutput `json:"output,omitempty"`
}

// FirstOutput returns the canonical output reference: the first non-blank element.
func (j Job) FirstOutput() string {
	if len(j.Output) == 0 {
		return ""
	}
	return strings.TrimSpace(j.Output[0])
}
