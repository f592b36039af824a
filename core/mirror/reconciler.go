package mirror

import (
	"context"
	"fmt"

	"catalog-sync/core/fingerprint"
	"catalog-sync/core/lifecycle"

	"go.uber.org/zap"
)

// ReconcileStats summarizes one reconciliation pass over a (type, scope) pair.
type ReconcileStats struct {
	// EntityType is the asset kind this pass covered.
	EntityType string `json:"entity_type"`
	// Scope is the scope this pass covered.
	Scope string `json:"scope"`
	// Seen is the number of entities in the source listing.
	Seen int `json:"seen"`
	// New counts entities sighted for the first time.
	New int `json:"new"`
	// Unchanged counts entities whose fingerprint matched.
	Unchanged int `json:"unchanged"`
	// Updated counts entities whose fingerprint changed.
	Updated int `json:"updated"`
	// Deleted counts entities newly marked DELETED, cascades included.
	Deleted int `json:"deleted"`
}

// Reconciler runs reconciliation passes against the mirror store.
type Reconciler struct {
	store    Store
	registry *Registry
	cascade  *CascadeDeleter
	logger   *zap.Logger
}

// NewReconciler creates a reconciler over the given store and type registry.
func NewReconciler(store Store, registry *Registry, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		registry: registry,
		cascade:  NewCascadeDeleter(store, registry, logger),
		logger:   logger,
	}
}

// ReconcileType consumes one full source listing for a (type, scope) pair and
// persists the resulting lifecycle transitions.
//
// Every listed entity is fingerprinted, classified, and projected; entities
// previously seen but absent from the listing are marked DELETED. When the
// kind has children in the hierarchy, a vanished entity's whole subtree is
// cascaded in one transaction.
func (r *Reconciler) ReconcileType(ctx context.Context, desc TypeDescriptor, scope string, listing []SourceEntity) (*ReconcileStats, error) {
	stats := &ReconcileStats{EntityType: desc.Name, Scope: scope, Seen: len(listing)}

	stored, err := r.store.ListByTypeAndScope(ctx, desc.Name, scope)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*Record, len(stored))
	for i := range stored {
		index[stored[i].ExternalID] = &stored[i]
	}

	seen := make(map[string]struct{}, len(listing))
	for _, src := range listing {
		if src.ExternalID == "" {
			return nil, fmt.Errorf("listing for %s/%s contains an entity without external id", desc.Name, scope)
		}
		seen[src.ExternalID] = struct{}{}

		fresh := fingerprint.Digest(src.TrackedFields)

		rec, exists := index[src.ExternalID]
		if !exists {
			rec = &Record{
				EntityType:  desc.Name,
				ExternalID:  src.ExternalID,
				Scope:       scope,
				Propagation: lifecycle.PropagationNotSynced,
			}
		}

		next := lifecycle.Classify(rec.Fingerprint, fresh, rec.Status)
		rec.Propagation = lifecycle.Project(next, rec.Propagation)
		rec.Status = next
		rec.Fingerprint = &fresh
		rec.DisplayName = src.DisplayName
		rec.ParentID = src.ParentID
		rec.SetAttributes(src.Attributes)
		rec.SetRelations(src.Relations)

		if err := r.store.Upsert(ctx, rec); err != nil {
			return nil, err
		}

		switch next {
		case lifecycle.StatusNew:
			stats.New++
		case lifecycle.StatusUpdated:
			stats.Updated++
		default:
			stats.Unchanged++
		}
	}

	// Absence pass over the complement of the freshly seen identity set.
	for _, rec := range index {
		if _, ok := seen[rec.ExternalID]; ok {
			continue
		}
		if rec.Status == lifecycle.StatusDeleted {
			continue
		}

		affected, err := r.cascade.Delete(ctx, desc.Name, rec.ExternalID, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to delete vanished entity %s/%s: %w", desc.Name, rec.ExternalID, err)
		}
		stats.Deleted += affected
	}

	r.logger.Info("Reconciliation pass completed",
		zap.String("type", desc.Name),
		zap.String("scope", scope),
		zap.Int("seen", stats.Seen),
		zap.Int("new", stats.New),
		zap.Int("updated", stats.Updated),
		zap.Int("deleted", stats.Deleted))

	return stats, nil
}
