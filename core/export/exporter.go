package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TypeExport is the input for one asset type's export.
type TypeExport struct {
	// EntityType is the asset kind name.
	EntityType string
	// TwoPhase selects the relation-safe two-pass protocol. Required whenever
	// entities of this kind can reference their own kind; kinds without
	// self-relations import single-phase.
	TwoPhase bool
	// DependsOnSibling is the Planner's ordering predicate, optional.
	DependsOnSibling func(Entity) bool
	// Entities are the relation-bearing entities pending export.
	Entities []Entity
}

// Exporter runs the batched import protocol for one asset type at a time.
// Chunks within a phase run strictly sequentially; Phase 2 never starts before
// every Phase-1 chunk has reached terminal success.
type Exporter struct {
	poller    *Poller
	batchSize int
	logger    *zap.Logger
}

// NewExporter creates an exporter over the given downstream client.
func NewExporter(client Client, cfg Config, logger *zap.Logger) *Exporter {
	return &Exporter{
		poller: &Poller{
			Client:      client,
			Interval:    cfg.PollInterval(),
			MaxAttempts: cfg.MaxPollAttempts,
			Logger:      logger,
		},
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// ExportType imports one asset type's pending entities.
//
// Two-phase types first import every entity with an empty relation set,
// establishing all identities downstream, then re-import the originals with
// relations under the update-in-place policy. A Phase-1 chunk failure makes
// relation import unsafe, so Phase 2 is skipped for the type and the result
// reports partial counts. A Phase-2 chunk failure is reported but does not
// invalidate Phase 1's confirmed entity creation, and remaining Phase-2
// chunks still run: each is independent once all identities exist.
func (e *Exporter) ExportType(ctx context.Context, in TypeExport) TypeResult {
	res := TypeResult{EntityType: in.EntityType}

	if len(in.Entities) == 0 {
		res.Success = true
		return res
	}

	planner := Planner{BatchSize: e.batchSize, DependsOnSibling: in.DependsOnSibling}

	if in.TwoPhase {
		if !e.runPhase1(ctx, planner, &res, in) {
			return res
		}
	}

	e.runFinalPhase(ctx, planner, &res, in)

	res.Success = len(res.Errors) == 0
	if !res.Success && res.Message == "" {
		res.Message = fmt.Sprintf("%d chunk(s) failed for type %s", len(res.Errors), in.EntityType)
	}

	e.logger.Info("Type export finished",
		zap.String("type", in.EntityType),
		zap.Bool("two_phase", in.TwoPhase),
		zap.Bool("success", res.Success),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("relations_created", res.RelationsCreated))

	return res
}

// runPhase1 imports relation-stripped copies of every entity. Returns false
// when any chunk failed, in which case Phase 2 must not run.
func (e *Exporter) runPhase1(ctx context.Context, planner Planner, res *TypeResult, in TypeExport) bool {
	stripped := make([]Entity, len(in.Entities))
	for i, entity := range in.Entities {
		entity.Relations = nil
		stripped[i] = entity
	}

	chunks, err := planner.Plan(stripped)
	if err != nil {
		res.Message = err.Error()
		return false
	}

	for i, chunk := range chunks {
		result, err := e.poller.SubmitAndAwait(ctx, chunk)
		res.Phase1Chunks++
		if err != nil {
			res.Errors = append(res.Errors, ChunkError{Phase: 1, Chunk: i, Error: err.Error()})
			continue
		}
		res.Created += result.Created
		res.Updated += result.Updated
		res.Skipped += result.Skipped
	}

	if len(res.Errors) > 0 {
		res.Phase2Skipped = true
		res.Message = fmt.Sprintf("phase 1 incomplete for type %s; relations not attempted", in.EntityType)
		e.logger.Warn("Phase 1 incomplete, skipping relation import",
			zap.String("type", in.EntityType),
			zap.Int("failed_chunks", len(res.Errors)))
		return false
	}

	return true
}

// runFinalPhase imports the original relation-bearing entities. For two-phase
// types this is Phase 2 and only relation counts are aggregated, since every
// entity was already counted in Phase 1. Single-phase types aggregate all
// counts here.
func (e *Exporter) runFinalPhase(ctx context.Context, planner Planner, res *TypeResult, in TypeExport) {
	phase := 1
	if in.TwoPhase {
		phase = 2
	}

	chunks, err := planner.Plan(in.Entities)
	if err != nil {
		res.Message = err.Error()
		res.Errors = append(res.Errors, ChunkError{Phase: phase, Chunk: 0, Error: err.Error()})
		return
	}

	for i, chunk := range chunks {
		result, err := e.poller.SubmitAndAwait(ctx, chunk)
		if in.TwoPhase {
			res.Phase2Chunks++
		} else {
			res.Phase1Chunks++
		}
		if err != nil {
			res.Errors = append(res.Errors, ChunkError{Phase: phase, Chunk: i, Error: err.Error()})
			continue
		}

		if in.TwoPhase {
			res.RelationsCreated += result.RelationsCreated
			res.Skipped += result.Skipped
		} else {
			res.Created += result.Created
			res.Updated += result.Updated
			res.RelationsCreated += result.RelationsCreated
			res.Skipped += result.Skipped
		}

		for _, entity := range chunk {
			res.Confirmed = append(res.Confirmed, entity.Ref())
		}
	}
}
