package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/export"
	"catalog-sync/core/lifecycle"
	"catalog-sync/core/mirror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Lister reads full inventories from the source catalog.
type Lister interface {
	ListEntities(ctx context.Context, scope, entityType string) ([]mirror.SourceEntity, error)
}

// Service runs synchronization passes and keeps their reports.
type Service struct {
	store      mirror.Store
	registry   *mirror.Registry
	source     Lister
	exporter   *export.Exporter
	reconciler *mirror.Reconciler
	deleter    export.Deleter
	archiver   *Archiver
	scopes     []string
	cfg        export.Config
	logger     *zap.Logger

	mu   sync.Mutex
	runs map[string]*RunReport
}

// NewService wires a sync service. archiver may be nil to disable report
// archival.
func NewService(store mirror.Store, registry *mirror.Registry, source Lister,
	client export.Client, deleter export.Deleter, archiver *Archiver,
	scopes []string, cfg export.Config, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		registry:   registry,
		source:     source,
		exporter:   export.NewExporter(client, cfg, logger),
		reconciler: mirror.NewReconciler(store, registry, logger),
		deleter:    deleter,
		archiver:   archiver,
		scopes:     scopes,
		cfg:        cfg,
		logger:     logger,
		runs:       make(map[string]*RunReport),
	}
}

// Run executes one full synchronization pass: reconcile, export, delete.
// It always returns a report; failures are recorded inside it.
func (s *Service) Run(ctx context.Context) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Scopes:    s.scopes,
	}

	s.logger.Info("Sync run started",
		zap.String("run_id", report.RunID),
		zap.Strings("scopes", s.scopes))

	s.reconcileAll(ctx, report)
	s.exportAll(ctx, report)
	s.deleteAll(ctx, report)

	report.finish()
	s.remember(report)

	if s.archiver != nil {
		s.archiver.Archive(ctx, report)
	}

	s.logger.Info("Sync run finished",
		zap.String("run_id", report.RunID),
		zap.Bool("success", report.Success),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("deleted", report.Deleted),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	return report
}

// Reconcile runs only the reconciliation passes, without exporting. Scope and
// entityType filter the pass; empty means all.
func (s *Service) Reconcile(ctx context.Context, scope, entityType string) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Scopes:    s.scopes,
	}
	if scope != "" {
		report.Scopes = []string{scope}
	}

	for _, sc := range report.Scopes {
		for _, desc := range s.registry.Types() {
			if entityType != "" && desc.Name != entityType {
				continue
			}
			s.reconcileOne(ctx, report, desc, sc)
		}
	}

	report.finish()
	s.remember(report)
	return report
}

// Export runs only the export and deletion stages against whatever is already
// pending in the mirror.
func (s *Service) Export(ctx context.Context) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Scopes:    s.scopes,
	}

	s.exportAll(ctx, report)
	s.deleteAll(ctx, report)

	report.finish()
	s.remember(report)
	return report
}

// GetRun returns a report produced earlier in this process.
func (s *Service) GetRun(runID string) (*RunReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.runs[runID]
	return report, ok
}

// ListEntities returns mirror records filtered by kind, scope and propagation
// status. Empty filters match everything of the given kind and scope.
func (s *Service) ListEntities(ctx context.Context, entityType, scope string, propagation lifecycle.PropagationStatus) ([]mirror.Record, error) {
	if propagation != "" {
		if !propagation.Valid() {
			return nil, fmt.Errorf("unknown propagation status %q", propagation)
		}
		return s.store.ListByPropagation(ctx, entityType, scope, propagation)
	}
	return s.store.ListByTypeAndScope(ctx, entityType, scope)
}

func (s *Service) remember(report *RunReport) {
	s.mu.Lock()
	s.runs[report.RunID] = report
	s.mu.Unlock()
}

// reconcileAll walks every (kind, scope) pair parents-first.
func (s *Service) reconcileAll(ctx context.Context, report *RunReport) {
	for _, scope := range s.scopes {
		for _, desc := range s.registry.Types() {
			s.reconcileOne(ctx, report, desc, scope)
		}
	}
}

func (s *Service) reconcileOne(ctx context.Context, report *RunReport, desc mirror.TypeDescriptor, scope string) {
	listing, err := s.source.ListEntities(ctx, scope, desc.Name)
	if err != nil {
		// A failed listing must not be mistaken for an empty one: skipping
		// the pass leaves the mirror untouched instead of mass-deleting.
		report.Problems = append(report.Problems,
			fmt.Sprintf("listing %s in scope %s: %v", desc.Name, scope, err))
		s.logger.Error("Source listing failed",
			zap.String("type", desc.Name),
			zap.String("scope", scope),
			zap.Error(err))
		return
	}

	stats, err := s.reconciler.ReconcileType(ctx, desc, scope, listing)
	if err != nil {
		report.Problems = append(report.Problems,
			fmt.Sprintf("reconciling %s in scope %s: %v", desc.Name, scope, err))
		return
	}
	report.Reconcile = append(report.Reconcile, *stats)
}

// exportAll pushes every pending record downstream, wave by wave. Kinds within
// a wave run concurrently, bounded by the configured concurrency.
func (s *Service) exportAll(ctx context.Context, report *RunReport) {
	concurrency := s.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for _, wave := range s.registry.ExportStages() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		for _, desc := range wave {
			for _, scope := range s.scopes {
				desc, scope := desc, scope
				g.Go(func() error {
					result, problem := s.exportOne(gctx, desc, scope)
					mu.Lock()
					defer mu.Unlock()
					if problem != "" {
						report.Problems = append(report.Problems, problem)
						return nil
					}
					if result != nil {
						report.Exports = append(report.Exports, *result)
					}
					return nil
				})
			}
		}
		// Failures are collected per export; the wave itself never errors.
		_ = g.Wait()
	}
}

// exportOne exports the pending records of one (kind, scope) pair and marks
// the confirmed ones SYNCED. A nil result means there was nothing to export.
func (s *Service) exportOne(ctx context.Context, desc mirror.TypeDescriptor, scope string) (*export.TypeResult, string) {
	pending, err := s.store.ListByPropagation(ctx, desc.Name, scope,
		lifecycle.PropagationNotSynced, lifecycle.PropagationPendingUpdate)
	if err != nil {
		return nil, fmt.Sprintf("loading pending %s in scope %s: %v", desc.Name, scope, err)
	}

	entities := make([]export.Entity, 0, len(pending))
	idByRef := make(map[export.Ref]uint, len(pending))
	for i := range pending {
		rec := &pending[i]
		if rec.Status == lifecycle.StatusDeleted {
			// NOT_SYNCED deleted records were never exported and have nothing
			// to push; they simply stay out of the batch.
			continue
		}
		e := export.Entity{
			EntityType:  rec.EntityType,
			ExternalID:  rec.ExternalID,
			Scope:       rec.Scope,
			DisplayName: rec.DisplayName,
			Attributes:  rec.Attributes(),
			Relations:   rec.Relations(),
		}
		entities = append(entities, e)
		idByRef[e.Ref()] = rec.ID
	}
	if len(entities) == 0 {
		return nil, ""
	}

	var selfRelations []string
	for _, rel := range desc.Relations {
		if rel.TargetType == desc.Name {
			selfRelations = append(selfRelations, rel.Name)
		}
	}

	result := s.exporter.ExportType(ctx, export.TypeExport{
		EntityType:       desc.Name,
		TwoPhase:         desc.HasSelfRelations(),
		DependsOnSibling: export.SiblingPredicate(selfRelations...),
		Entities:         entities,
	})

	ids := make([]uint, 0, len(result.Confirmed))
	for _, ref := range result.Confirmed {
		if id, ok := idByRef[ref]; ok {
			ids = append(ids, id)
		}
	}
	if err := s.store.SetPropagation(ctx, ids, lifecycle.PropagationSynced); err != nil {
		return &result, fmt.Sprintf("marking %s in scope %s synced: %v", desc.Name, scope, err)
	}
	return &result, ""
}

// deleteAll drains the pending deletions, children before parents, after all
// imports are done.
func (s *Service) deleteAll(ctx context.Context, report *RunReport) {
	queue := export.NewDeletionQueue()
	types := s.registry.Types()

	for i := len(types) - 1; i >= 0; i-- {
		for _, scope := range s.scopes {
			rows, err := s.store.ListByPropagation(ctx, types[i].Name, scope, lifecycle.PropagationPendingDelete)
			if err != nil {
				report.Problems = append(report.Problems,
					fmt.Sprintf("loading pending deletions of %s in scope %s: %v", types[i].Name, scope, err))
				continue
			}
			for _, rec := range rows {
				queue.Add(export.Deletion{
					EntityType: rec.EntityType,
					ExternalID: rec.ExternalID,
					Scope:      rec.Scope,
					RecordID:   rec.ID,
				})
			}
		}
	}

	report.Deletions = queue.Drain(ctx, s.deleter, s.logger)

	// Successfully deleted records fall back to NOT_SYNCED: the downstream
	// no longer knows them, which is exactly what that status means.
	ids := make([]uint, 0, len(report.Deletions.Succeeded))
	for _, d := range report.Deletions.Succeeded {
		ids = append(ids, d.RecordID)
	}
	if err := s.store.SetPropagation(ctx, ids, lifecycle.PropagationNotSynced); err != nil {
		report.Problems = append(report.Problems,
			fmt.Sprintf("recording completed deletions: %v", err))
	}
}
