package export

import "fmt"

// PlanningError reports an invalid batch size or malformed entity set. It is
// raised before any network call.
type PlanningError struct {
	Reason string
}

func (e *PlanningError) Error() string {
	return "export planning failed: " + e.Reason
}

// TransportError wraps a network or connection failure during submit or poll.
// The poller never retries it; the caller may retry at the chunk level.
type TransportError struct {
	// Op is "submit" or "poll".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// JobTimeoutError reports an exhausted polling budget. It is distinct from an
// explicit downstream failure: the job may still complete later.
type JobTimeoutError struct {
	JobID    string
	Attempts int
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("job %s not terminal after %d poll attempts", e.JobID, e.Attempts)
}

// JobFailureError reports a downstream terminal failure state, carrying
// whatever diagnostic message the job exposed.
type JobFailureError struct {
	JobID   string
	Message string
}

func (e *JobFailureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}
