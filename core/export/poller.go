package export

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 150
)

// Poller submits one batch as an asynchronous job and waits, cooperatively,
// for its terminal state.
type Poller struct {
	// Client is the downstream catalog.
	Client Client
	// Interval is the delay between status polls. Defaults to 2s.
	Interval time.Duration
	// MaxAttempts bounds the poll loop. Defaults to 150.
	MaxAttempts int
	// Logger is optional.
	Logger *zap.Logger
}

// SubmitAndAwait submits the batch and blocks until the job reaches a terminal
// state or the attempt budget runs out. The wait suspends on a timer rather
// than busy-polling, and honors context cancellation.
//
// Result counts are read only from the terminal success payload; submission
// success says nothing about completion. Failures map onto the package error
// taxonomy: TransportError, JobFailureError, JobTimeoutError.
func (p *Poller) SubmitAndAwait(ctx context.Context, batch []Entity) (JobResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	jobID, err := p.Client.SubmitBatch(ctx, batch)
	if err != nil {
		return JobResult{}, &TransportError{Op: "submit", Err: err}
	}

	logger.Debug("Batch submitted",
		zap.String("job_id", jobID),
		zap.Int("entities", len(batch)))

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return JobResult{}, ctx.Err()
		case <-timer.C:
		}

		status, err := p.Client.JobStatus(ctx, jobID)
		if err != nil {
			return JobResult{}, &TransportError{Op: "poll", Err: err}
		}

		if !status.State.Terminal() {
			timer.Reset(interval)
			continue
		}

		if status.State == JobFailure {
			return JobResult{}, &JobFailureError{JobID: jobID, Message: status.Message}
		}
		if status.Result == nil {
			return JobResult{}, &JobFailureError{JobID: jobID, Message: "terminal payload carries no result counts"}
		}

		logger.Debug("Job completed",
			zap.String("job_id", jobID),
			zap.Int("attempts", attempt),
			zap.Int("created", status.Result.Created),
			zap.Int("updated", status.Result.Updated))
		return *status.Result, nil
	}

	return JobResult{}, &JobTimeoutError{JobID: jobID, Attempts: maxAttempts}
}
