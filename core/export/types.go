package export

import "context"

// Entity is one entity in the form the downstream bulk-import API accepts.
type Entity struct {
	// EntityType is the asset kind name.
	EntityType string `json:"entity_type"`
	// ExternalID is the stable external identifier.
	ExternalID string `json:"external_id"`
	// Scope disambiguates the identity across tenants/sites.
	Scope string `json:"scope"`
	// DisplayName is the human-readable name.
	DisplayName string `json:"display_name"`
	// Attributes are display attributes.
	Attributes map[string]string `json:"attributes,omitempty"`
	// Relations maps relation-type name to target external ids.
	Relations map[string][]string `json:"relations,omitempty"`
}

// Ref identifies an entity without carrying its payload.
type Ref struct {
	EntityType string `json:"entity_type"`
	ExternalID string `json:"external_id"`
	Scope      string `json:"scope"`
}

// Ref returns the entity's identity.
func (e Entity) Ref() Ref {
	return Ref{EntityType: e.EntityType, ExternalID: e.ExternalID, Scope: e.Scope}
}

// JobState is the downstream job lifecycle state.
type JobState string

const (
	// JobQueued means the job has not started processing.
	JobQueued JobState = "queued"
	// JobRunning means the job is being processed.
	JobRunning JobState = "running"
	// JobSuccess is the terminal success state.
	JobSuccess JobState = "success"
	// JobFailure is the terminal failure state.
	JobFailure JobState = "failure"
)

// Terminal reports whether the state ends the poll loop.
func (s JobState) Terminal() bool {
	return s == JobSuccess || s == JobFailure
}

// JobResult carries the authoritative counts from a job's terminal payload.
// Counts must never be read anywhere else: the downstream processes the job
// asynchronously and may still be mutating state when submission returns.
type JobResult struct {
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	RelationsCreated int `json:"relations_created"`
	Skipped          int `json:"skipped"`
}

// JobStatus is one poll response. Result is set only on terminal success.
type JobStatus struct {
	State   JobState   `json:"state"`
	Result  *JobResult `json:"result,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Client is the downstream catalog surface the engine consumes.
// Re-submitting an existing entity is expected; the downstream's policy is
// always update in place.
type Client interface {
	// SubmitBatch submits a bounded-size batch and returns an opaque job id.
	SubmitBatch(ctx context.Context, entities []Entity) (string, error)
	// JobStatus returns the job's current state and, on terminal success, its
	// authoritative result counts.
	JobStatus(ctx context.Context, jobID string) (JobStatus, error)
}

// Deleter executes downstream entity deletions.
type Deleter interface {
	DeleteEntity(ctx context.Context, entityType, externalID, scope string) error
}

// ChunkError records one failed chunk within a type's export.
type ChunkError struct {
	// Phase is 1 or 2.
	Phase int `json:"phase"`
	// Chunk is the zero-based chunk index within the phase.
	Chunk int `json:"chunk"`
	// Error is the failure description.
	Error string `json:"error"`
}

// TypeResult is the per-asset-type export outcome. Counts are literal and
// partial results are preserved; a failed chunk never erases the counts of
// chunks that completed.
type TypeResult struct {
	// EntityType is the asset kind this result covers.
	EntityType string `json:"entity_type"`

	// Created, Updated, RelationsCreated and Skipped aggregate the terminal
	// job payloads of completed chunks.
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	RelationsCreated int `json:"relations_created"`
	Skipped          int `json:"skipped"`

	// Phase1Chunks and Phase2Chunks count submitted chunks per phase.
	Phase1Chunks int `json:"phase1_chunks"`
	Phase2Chunks int `json:"phase2_chunks"`

	// Phase2Skipped is true when a Phase-1 failure made relation import unsafe.
	Phase2Skipped bool `json:"phase2_skipped,omitempty"`

	// Confirmed lists entities whose import reached terminal success in the
	// final phase. Only these may be marked SYNCED by the caller.
	Confirmed []Ref `json:"-"`

	// Errors lists failed chunks.
	Errors []ChunkError `json:"errors,omitempty"`

	// Success is true when every chunk of every phase succeeded.
	Success bool `json:"success"`
	// Message is a human-readable failure summary, empty on success.
	Message string `json:"message,omitempty"`
}
