package sync

import (
	"fmt"
	"time"

	"catalog-sync/core/export"
	"catalog-sync/core/mirror"
)

// RunReport is the full outcome of one synchronization run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// StartedAt and FinishedAt bound the run in UTC.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Scopes lists the scopes the run covered.
	Scopes []string `json:"scopes"`

	// Reconcile holds one entry per (kind, scope) reconciliation pass.
	Reconcile []mirror.ReconcileStats `json:"reconcile"`
	// Exports holds one entry per (kind, scope) export with pending work.
	Exports []export.TypeResult `json:"exports"`
	// Deletions summarizes the deferred deletion drain.
	Deletions export.DeletionResult `json:"deletions"`

	// Created, Updated, RelationsCreated and Skipped aggregate the export
	// results; Deleted aggregates reconciliation deletions.
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	RelationsCreated int `json:"relations_created"`
	Skipped          int `json:"skipped"`
	Deleted          int `json:"deleted"`

	// Problems lists run-level failures: listings that could not be fetched
	// or store reads that failed. Export chunk failures live in Exports.
	Problems []string `json:"problems,omitempty"`

	// Success is true when nothing at all went wrong.
	Success bool `json:"success"`
	// Message summarizes the failure mode, empty on success.
	Message string `json:"message,omitempty"`
}

// finish stamps the end time and folds per-part results into the aggregates.
func (r *RunReport) finish() {
	r.FinishedAt = time.Now().UTC()

	failedExports := 0
	for _, res := range r.Exports {
		r.Created += res.Created
		r.Updated += res.Updated
		r.RelationsCreated += res.RelationsCreated
		r.Skipped += res.Skipped
		if !res.Success {
			failedExports++
		}
	}
	for _, stats := range r.Reconcile {
		r.Deleted += stats.Deleted
	}

	r.Success = len(r.Problems) == 0 && failedExports == 0 && len(r.Deletions.Failed) == 0
	if r.Success {
		return
	}

	r.Message = fmt.Sprintf("%d problem(s), %d failed export(s), %d failed deletion(s)",
		len(r.Problems), failedExports, len(r.Deletions.Failed))
}
