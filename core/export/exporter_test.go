package export

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCatalog simulates the downstream bulk-import API strictly: a batch
// containing a relation whose target identity has not been imported yet makes
// the whole job fail, exactly like a real "target not found" race.
type fakeCatalog struct {
	mu      sync.Mutex
	nextJob int
	jobs    map[string]JobStatus
	known   map[Ref]struct{}
	batches [][]Entity

	// failJobs holds 0-based submission indexes whose job should fail.
	failJobs map[int]struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		jobs:     make(map[string]JobStatus),
		known:    make(map[Ref]struct{}),
		failJobs: make(map[int]struct{}),
	}
}

// failJob makes the n-th (0-based) submitted job report terminal failure.
func (c *fakeCatalog) failJob(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failJobs[n] = struct{}{}
}

func (c *fakeCatalog) SubmitBatch(ctx context.Context, entities []Entity) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	submissionIndex := c.nextJob
	c.nextJob++
	jobID := fmt.Sprintf("job-%d", c.nextJob)
	c.batches = append(c.batches, entities)

	if _, fail := c.failJobs[submissionIndex]; fail {
		c.jobs[jobID] = JobStatus{State: JobFailure, Message: "injected failure"}
		return jobID, nil
	}

	var result JobResult
	for _, e := range entities {
		ref := e.Ref()
		if _, exists := c.known[ref]; exists {
			result.Updated++
		} else {
			result.Created++
		}

		for _, targets := range e.Relations {
			for _, target := range targets {
				// Relation targets resolve against identities imported by any
				// earlier job; same-kind targets must already exist.
				targetRef := Ref{EntityType: e.EntityType, ExternalID: target, Scope: e.Scope}
				if _, ok := c.known[targetRef]; !ok {
					c.jobs[jobID] = JobStatus{
						State:   JobFailure,
						Message: fmt.Sprintf("relation target %s not found", target),
					}
					return jobID, nil
				}
				result.RelationsCreated++
			}
		}
	}

	for _, e := range entities {
		c.known[e.Ref()] = struct{}{}
	}

	c.jobs[jobID] = JobStatus{State: JobSuccess, Result: &result}
	return jobID, nil
}

func (c *fakeCatalog) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.jobs[jobID]
	if !ok {
		return JobStatus{}, fmt.Errorf("unknown job %s", jobID)
	}
	return status, nil
}

func testExporter(client Client, batchSize int) *Exporter {
	return NewExporter(client, Config{
		BatchSize:       batchSize,
		PollIntervalMS:  1,
		MaxPollAttempts: 10,
	}, zap.NewNop())
}

// relationEntity builds a table entity with same-kind upstream relations.
func relationEntity(id string, upstream ...string) Entity {
	e := Entity{EntityType: "table", ExternalID: id, Scope: "prod", DisplayName: id}
	if len(upstream) > 0 {
		e.Relations = map[string][]string{"upstream": upstream}
	}
	return e
}

// TestExportType_TwoPhaseRelationSafety is the cross-batch scenario: 5
// entities in batches of 3+2, entity 1 (batch A) relates to entity 4 (batch B)
// and entity 5 (batch B) relates to entity 2 (batch A). The strict fake fails
// any job referencing a not-yet-imported target, so zero relation failures
// proves Phase 1 fully terminated before any Phase-2 submission.
func TestExportType_TwoPhaseRelationSafety(t *testing.T) {
	catalog := newFakeCatalog()
	exporter := testExporter(catalog, 3)

	entities := []Entity{
		relationEntity("e-1", "e-4"),
		relationEntity("e-2"),
		relationEntity("e-3"),
		relationEntity("e-4"),
		relationEntity("e-5", "e-2"),
	}

	res := exporter.ExportType(context.Background(), TypeExport{
		EntityType: "table",
		TwoPhase:   true,
		Entities:   entities,
	})

	require.True(t, res.Success, "message: %s, errors: %v", res.Message, res.Errors)
	assert.Empty(t, res.Errors, "phase 2 must see zero relation failures")
	assert.Equal(t, 5, res.Created)
	assert.Equal(t, 2, res.RelationsCreated, "total relation count across all 5 entities")
	assert.Equal(t, 2, res.Phase1Chunks)
	assert.Equal(t, 2, res.Phase2Chunks)

	// Phase-1 batches (first two) must carry no relations at all.
	require.Len(t, catalog.batches, 4)
	for _, batch := range catalog.batches[:2] {
		for _, e := range batch {
			assert.Empty(t, e.Relations, "phase 1 must strip relations")
		}
	}
}

func TestExportType_SinglePhaseForTypesWithoutSelfRelations(t *testing.T) {
	catalog := newFakeCatalog()
	exporter := testExporter(catalog, 10)

	// Cross-type targets must already exist downstream.
	for _, id := range []string{"t-1", "t-2"} {
		catalog.known[Ref{EntityType: "table", ExternalID: id, Scope: "prod"}] = struct{}{}
	}

	entities := []Entity{
		{EntityType: "view", ExternalID: "v-1", Scope: "prod"},
		{EntityType: "view", ExternalID: "v-2", Scope: "prod"},
	}

	res := exporter.ExportType(context.Background(), TypeExport{
		EntityType: "view",
		TwoPhase:   false,
		Entities:   entities,
	})

	require.True(t, res.Success)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Phase1Chunks, "single-phase type halves API calls")
	assert.Zero(t, res.Phase2Chunks)
	assert.Len(t, catalog.batches, 1)
	assert.Len(t, res.Confirmed, 2)
}

func TestExportType_Phase1FailureSkipsPhase2(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failJob(0) // first phase-1 chunk fails
	exporter := testExporter(catalog, 2)

	entities := []Entity{
		relationEntity("e-1", "e-3"),
		relationEntity("e-2"),
		relationEntity("e-3"),
	}

	res := exporter.ExportType(context.Background(), TypeExport{
		EntityType: "table",
		TwoPhase:   true,
		Entities:   entities,
	})

	assert.False(t, res.Success)
	assert.True(t, res.Phase2Skipped, "relations cannot safely be attempted")
	assert.Zero(t, res.Phase2Chunks)
	assert.Empty(t, res.Confirmed)
	// Partial counts from the chunk that completed are preserved.
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Phase)
}

func TestExportType_Phase2FailureKeepsPhase1Counts(t *testing.T) {
	catalog := newFakeCatalog()
	exporter := testExporter(catalog, 2)

	entities := []Entity{
		relationEntity("e-1"),
		relationEntity("e-2"),
		relationEntity("e-3", "e-1"),
	}

	// Phase 1 submits 2 chunks; make the first phase-2 job fail.
	catalog.failJob(2)

	res := exporter.ExportType(context.Background(), TypeExport{
		EntityType: "table",
		TwoPhase:   true,
		Entities:   entities,
	})

	assert.False(t, res.Success)
	assert.False(t, res.Phase2Skipped)
	assert.Equal(t, 3, res.Created, "phase 1 creation is not retroactively invalidated")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Phase)
	// The second phase-2 chunk still ran and is confirmed.
	assert.Equal(t, 2, res.Phase2Chunks)
	assert.Len(t, res.Confirmed, 1)
}

func TestExportType_EmptyInput(t *testing.T) {
	catalog := newFakeCatalog()
	exporter := testExporter(catalog, 10)

	res := exporter.ExportType(context.Background(), TypeExport{EntityType: "table", TwoPhase: true})

	assert.True(t, res.Success)
	assert.Empty(t, catalog.batches, "no entities means no API calls")
}

func TestExportType_InvalidBatchSize(t *testing.T) {
	catalog := newFakeCatalog()
	exporter := testExporter(catalog, 0)

	res := exporter.ExportType(context.Background(), TypeExport{
		EntityType: "table",
		Entities:   []Entity{relationEntity("e-1")},
	})

	assert.False(t, res.Success)
	assert.Empty(t, catalog.batches, "planning errors must fail fast before any network call")
}
