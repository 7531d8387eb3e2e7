package domain

import "fmt"

// JobState is the lifecycle state of a single download job
type JobState string

// Job state constants
const (
	JobStatePending         JobState = "pending"
	JobStateInFlight        JobState = "in_flight"
	JobStateSucceeded       JobState = "succeeded"
	JobStateHTTPFailed      JobState = "http_failed"
	JobStateTransportFailed JobState = "transport_failed"
)

var validTransitions = map[JobState][]JobState{
	JobStatePending:  {JobStateInFlight},
	JobStateInFlight: {JobStateSucceeded, JobStateHTTPFailed, JobStateTransportFailed},
}

// IsTerminal returns true for states a job can never leave
func (s JobState) IsTerminal() bool {
	switch s {
	case JobStateSucceeded, JobStateHTTPFailed, JobStateTransportFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s JobState) CanTransitionTo(next JobState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is legal, or ErrInvalidStateTransition
func (s JobState) Transition(next JobState) (JobState, error) {
	if s.IsTerminal() {
		return s, fmt.Errorf("%w: %s is final", ErrInvalidStateTransition, s)
	}
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, s, next)
	}
	return next, nil
}
