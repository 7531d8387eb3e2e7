package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutcomeStatus classifies the result of one job
type OutcomeStatus string

// Outcome status constants
const (
	StatusSuccess        OutcomeStatus = "success"
	StatusHTTPError      OutcomeStatus = "http_error"
	StatusTransportError OutcomeStatus = "transport_error"
)

// DownloadOutcome is the terminal result of executing one DownloadJob
type DownloadOutcome struct {
	Job DownloadJob

	// ReportSeq is assigned in completion order and only used for log correlation
	ReportSeq int64

	Status     OutcomeStatus
	State      JobState
	HTTPStatus int
	Message    string

	Bytes    int64
	Duration time.Duration
}

// Succeeded returns true if the job's file was written
func (o *DownloadOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// OutcomeFromError classifies a job error into an outcome. A nil error yields
// a success outcome.
func OutcomeFromError(job DownloadJob, err error) DownloadOutcome {
	o := DownloadOutcome{Job: job}
	if err == nil {
		o.Status = StatusSuccess
		o.State = JobStateSucceeded
		return o
	}

	o.Message = err.Error()
	var he *HTTPError
	if errors.As(err, &he) {
		o.Status = StatusHTTPError
		o.State = JobStateHTTPFailed
		o.HTTPStatus = he.StatusCode
		return o
	}

	// Anything that is not an HTTP status failure is a transport failure
	o.Status = StatusTransportError
	o.State = JobStateTransportFailed
	return o
}

// RunSummary aggregates the outcomes of a single run
type RunSummary struct {
	RunID         string
	ReferenceDate string
	StartedAt     time.Time
	FinishedAt    time.Time

	// Outcomes is ordered by job Seq, not completion order
	Outcomes []DownloadOutcome

	Succeeded int
	Failed    int
}

// NewRunID returns a fresh identifier for a run
func NewRunID() string {
	return uuid.NewString()
}

// NewRunSummary tallies outcomes into a summary
func NewRunSummary(runID, referenceDate string, startedAt, finishedAt time.Time, outcomes []DownloadOutcome) *RunSummary {
	s := &RunSummary{
		RunID:         runID,
		ReferenceDate: referenceDate,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
		Outcomes:      outcomes,
	}
	for i := range outcomes {
		if outcomes[i].Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Total returns the number of jobs in the run
func (s *RunSummary) Total() int {
	return len(s.Outcomes)
}

// OK returns true if every job succeeded
func (s *RunSummary) OK() bool {
	return s.Failed == 0
}

// Duration returns the wall-clock length of the run
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Failures returns the failed outcomes in job order
func (s *RunSummary) Failures() []DownloadOutcome {
	var failed []DownloadOutcome
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// TotalBytes returns the bytes written by successful jobs
func (s *RunSummary) TotalBytes() int64 {
	var n int64
	for _, o := range s.Outcomes {
		if o.Succeeded() {
			n += o.Bytes
		}
	}
	return n
}
